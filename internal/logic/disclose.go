package logic

import (
	"fmt"
	"os"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/fileutil"
	"github.com/idelchi/goseal/internal/seal"
)

// disclose surfaces the passphrases of successful jobs exactly once:
// as one block on stdout, or into the configured key file. Disclosure
// ignores --quiet; a suppressed passphrase is a lost passphrase. The
// locked buffers are closed afterwards either way.
func disclose(cfg *config.Config, jobs []*seal.Job) error {
	var done []*seal.Job

	for _, job := range jobs {
		if job.State == seal.StateDone && job.Passphrase != nil {
			done = append(done, job)
		}
	}

	defer func() {
		for _, job := range done {
			job.Passphrase.Close() //nolint:gosec // release is best-effort
			job.Passphrase = nil
		}
	}()

	if len(done) == 0 {
		return nil
	}

	if cfg.KeyFile != "" {
		if err := writeKeyFile(cfg.KeyFile, done); err != nil {
			// Do not lose the passphrases over a broken key file.
			fmt.Fprintf(os.Stderr, "Error writing key file %q: %v\n", cfg.KeyFile, err)
			printKeys(done)

			return fmt.Errorf("%w: writing key file: %w", seal.ErrIO, err)
		}

		if !cfg.Quiet {
			fmt.Printf("Passphrases written to %q\n", cfg.KeyFile) //nolint:forbidigo
		}

		return nil
	}

	printKeys(done)

	return nil
}

// printKeys writes the one-shot passphrase block to stdout.
func printKeys(jobs []*seal.Job) {
	fmt.Println("\nPassphrases (shown once, store them safely):") //nolint:forbidigo

	for _, job := range jobs {
		fmt.Printf("  %s : %s\n", job.Input, job.Passphrase.String()) //nolint:forbidigo
	}
}

// writeKeyFile appends the passphrase records atomically: records from
// an existing key file are carried into a temp file, the new ones
// follow, and a rename swaps the result in. A re-run must never destroy
// the only copy of an earlier run's passphrases. CreateTemp opens the
// file mode 0600, so the records are never world-readable.
func writeKeyFile(path string, jobs []*seal.Job) (err error) {
	existing, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading existing key file: %w", err)
	}

	tc, err := fileutil.NewTempContext(path)
	if err != nil {
		return err
	}
	defer tc.CleanupOnError(&err)

	if len(existing) > 0 {
		if existing[len(existing)-1] != '\n' {
			existing = append(existing, '\n')
		}

		if _, err = tc.TmpFile.Write(existing); err != nil {
			return fmt.Errorf("carrying over key records: %w", err)
		}
	}

	for _, job := range jobs {
		if _, err = fmt.Fprintf(tc.TmpFile, "%s : %s\n", job.Input, job.Passphrase.String()); err != nil {
			return fmt.Errorf("writing key record: %w", err)
		}
	}

	return tc.Finalize()
}
