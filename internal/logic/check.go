package logic

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/encrypt"
	"github.com/idelchi/goseal/internal/fileutil"
	"github.com/idelchi/goseal/internal/passphrase"
	"github.com/idelchi/goseal/internal/seal"
)

// RunCheck validates configuration and environment without touching any
// input: settings, passphrase policy strength, backend availability,
// key file placement and free space. With paths given it also previews
// the selection.
func RunCheck(cfg *config.Config) error {
	var failures int

	if err := cfg.ValidateSettings(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v (ERROR)\n", err)

		failures++
	} else if !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "configuration: OK")
	}

	failures += checkPolicy(cfg)
	failures += checkBackend(cfg)
	failures += checkPlacement(cfg)

	checkFreeSpace(cfg)

	if len(cfg.Files) > 0 {
		failures += checkSelection(cfg)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}

	return nil
}

// checkPolicy reports the strength of the passphrase policy. Weak
// policies warn rather than fail; short-lived archives may not need
// more, but the operator should see it.
func checkPolicy(cfg *config.Config) int {
	policy := passphrase.Policy{Length: cfg.Length, Charset: cfg.Charset}

	bits := passphrase.Entropy(policy)
	if bits == 0 {
		fmt.Fprintf(os.Stderr, "passphrase policy: unknown charset %q (ERROR)\n", cfg.Charset)

		return 1
	}

	const minBits = 64

	switch {
	case bits < minBits:
		fmt.Fprintf(os.Stderr, "passphrase policy: %d x %s, %.0f bits, below %d (WARNING)\n",
			cfg.Length, cfg.Charset, bits, minBits)
	case !cfg.Quiet:
		fmt.Fprintf(os.Stderr, "passphrase policy: %d x %s, %.0f bits: OK\n",
			cfg.Length, cfg.Charset, bits)
	}

	return 0
}

// checkBackend verifies the encryption capability is usable as configured.
func checkBackend(cfg *config.Config) int {
	enc, err := encrypt.New(cfg.Backend, cfg.Cipher, cfg.Digest, cfg.CompressLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend: %v (ERROR)\n", err)

		return 1
	}

	if err := enc.Available(); err != nil {
		fmt.Fprintf(os.Stderr, "backend %s: %v (ERROR)\n", enc.Name(), err)

		return 1
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "backend %s: OK\n", enc.Name())
	}

	return 0
}

// checkPlacement verifies the key file against a fixed output
// directory. The per-input-directory case needs a selection and is
// covered by checkSelection.
func checkPlacement(cfg *config.Config) int {
	if cfg.KeyFile == "" || cfg.OutputDir == "" {
		return 0
	}

	if err := keyFilePlacement(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "key file: %v (ERROR)\n", err)

		return 1
	}

	if !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "key file: OK")
	}

	return 0
}

// checkFreeSpace reports free space in the output directory. Purely
// informational.
func checkFreeSpace(cfg *config.Config) {
	if cfg.OutputDir == "" || cfg.Quiet {
		return
	}

	free, err := fileutil.FreeSpace(cfg.OutputDir)
	if err != nil {
		return
	}

	fmt.Fprintf(os.Stderr, "free space in %q: %s\n", cfg.OutputDir, humanize.IBytes(free))
}

// checkSelection previews what a seal run over the given paths would
// pick up and runs the selection-dependent checks, without touching
// anything.
func checkSelection(cfg *config.Config) int {
	preview := *cfg

	scanned, err := resolveFiles(&preview)
	if err != nil {
		fmt.Fprintf(os.Stderr, "selection: %v (ERROR)\n", err)

		return 1
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "selection: %d of %d files\n", len(preview.Files), scanned)

		for _, file := range preview.Files {
			fmt.Fprintf(os.Stderr, "  %s -> %s\n", file, seal.ArtifactPath(&preview, file))
		}
	}

	var failures int

	if err := templateCheck(&preview); err != nil {
		fmt.Fprintf(os.Stderr, "template: %v (ERROR)\n", err)

		failures++
	}

	if err := collisionCheck(&preview); err != nil {
		fmt.Fprintf(os.Stderr, "outputs: %v (ERROR)\n", err)

		failures++
	}

	if cfg.OutputDir == "" {
		if err := keyFilePlacement(&preview); err != nil {
			fmt.Fprintf(os.Stderr, "key file: %v (ERROR)\n", err)

			failures++
		}
	}

	return failures
}
