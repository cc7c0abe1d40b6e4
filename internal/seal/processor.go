// Package seal drives files through the backup pipeline: generate a
// passphrase, encrypt, split into chunks.
package seal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/goseal/internal/chunk"
	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/encrypt"
	"github.com/idelchi/goseal/internal/fileutil"
	"github.com/idelchi/goseal/internal/passphrase"
)

// Processor handles the sealing of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// enc is the encryption capability for this run
	enc encrypt.Encryptor

	// policy describes the passphrases to generate
	policy passphrase.Policy
}

// NewProcessor creates a Processor for the given configuration and
// encryption backend. Configuration the pipeline cannot run with is
// rejected here, before the backend is ever invoked.
func NewProcessor(cfg *config.Config, enc encrypt.Encryptor) (*Processor, error) {
	if cfg.SplitBytes() <= 0 {
		return nil, fmt.Errorf("%w: split size %q does not resolve to a positive byte count", ErrConfig, cfg.SplitSize)
	}

	if cfg.Suffix == "" {
		return nil, fmt.Errorf("%w: empty artifact suffix", ErrConfig)
	}

	policy := passphrase.Policy{Length: cfg.Length, Charset: cfg.Charset}

	if _, err := passphrase.Alphabet(policy.Charset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if policy.Length <= 0 {
		return nil, fmt.Errorf("%w: passphrase length must be positive, got %d", ErrConfig, policy.Length)
	}

	if enc == nil {
		return nil, fmt.Errorf("%w: no encryption backend", ErrConfig)
	}

	return &Processor{
		cfg:    cfg,
		enc:    enc,
		policy: policy,
	}, nil
}

// ProcessFiles runs every configured file through the pipeline, one at
// a time. A failing file is reported and the loop moves on; it never
// takes the rest of the batch with it. Passphrases of successful jobs
// stay in locked memory on the returned jobs until the caller discloses
// them.
func (p *Processor) ProcessFiles() ([]*Job, Summary) {
	jobs := make([]*Job, 0, len(p.cfg.Files))

	var summary Summary

	start := time.Now()

	for _, file := range p.cfg.Files {
		job := NewJob(file)
		jobs = append(jobs, job)

		jobStart := time.Now()
		err := p.processJob(job)
		job.Duration = time.Since(jobStart)

		if err != nil {
			job.Fail(err)

			summary.Errored++

			fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", job.Input, err)

			continue
		}

		summary.Processed++
		summary.InputSize += job.Size
		summary.OutputSize += job.OutputSize

		if !p.cfg.Quiet {
			fmt.Printf("Sealed %q -> %d chunk(s), %s in %s (%s/s)\n", //nolint:forbidigo
				job.Input,
				len(job.Chunks),
				humanize.IBytes(uint64(job.OutputSize)), //nolint:gosec // sizes are non-negative
				job.Duration.Round(time.Millisecond),
				humanize.IBytes(uint64(job.Throughput())),
			)
		}

		if p.cfg.Delete {
			if err := os.Remove(job.Input); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", job.Input, err)
			} else if !p.cfg.Quiet {
				fmt.Printf("Deleted %q\n", job.Input) //nolint:forbidigo
			}
		}
	}

	summary.Duration = time.Since(start)

	return jobs, summary
}

// processJob takes one job from pending to done: probe the source,
// generate its passphrase, encrypt to the artifact path, split. Every
// failure is classified by the stage it happened in.
func (p *Processor) processJob(job *Job) error {
	info, err := fileutil.Probe(job.Input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInput, err)
	}

	job.Size = info.Size()

	pass, err := passphrase.Generate(p.policy)
	if err != nil {
		return fmt.Errorf("%w: generating passphrase: %w", ErrEncryption, err)
	}

	job.Passphrase = pass

	job.Advance(StateEncrypting)

	artifact := ArtifactPath(p.cfg, job.Input)

	if err := p.enc.Encrypt(job.Input, artifact, pass.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	job.Advance(StateEncrypted)

	encrypted, err := os.Stat(artifact)
	if err != nil {
		os.Remove(artifact) //nolint:gosec,errcheck // best-effort cleanup

		return fmt.Errorf("%w: stat artifact %q: %w", ErrIO, artifact, err)
	}

	job.OutputSize = encrypted.Size()

	job.Advance(StateChunking)

	chunks, err := chunk.Split(artifact, p.cfg.SplitBytes())
	if err != nil {
		// Split cleaned up its chunks; the artifact must go too so a
		// failed job leaves nothing behind.
		os.Remove(artifact) //nolint:gosec,errcheck // best-effort cleanup

		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	job.Chunks = chunks

	job.Advance(StateDone)

	return nil
}

// ArtifactPath returns where the encrypted artifact for input lands:
// the configured output directory (default: alongside the input) joined
// with the rendered base name plus the artifact suffix.
func ArtifactPath(cfg *config.Config, input string) string {
	base := filepath.Base(input)

	if cfg.Rename {
		base = chunk.Render(cfg.Template, base)
	}

	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	return filepath.Join(dir, base+cfg.Suffix)
}
