package logic

import (
	"fmt"
	"os"

	"github.com/idelchi/goseal/internal/chunk"
	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/seal"
)

// RunJoin reassembles a chunk set into the encrypted artifact. By
// default the chunks are removed after a successful join; --keep leaves
// them in place.
func RunJoin(cfg *config.Config) error {
	if len(cfg.Files) == 0 {
		return fmt.Errorf("%w: no chunks given", seal.ErrInput)
	}

	ordered, artifact, err := chunk.Order(cfg.Files)
	if err != nil {
		return fmt.Errorf("%w: %w", seal.ErrInput, err)
	}

	out := cfg.Output
	if out == "" {
		out = artifact
	}

	if cfg.Dry {
		if !cfg.Quiet {
			fmt.Printf("Would join %d chunk(s) -> %q\n", len(ordered), out) //nolint:forbidigo
		}

		return nil
	}

	if err := chunk.Join(ordered, out); err != nil {
		return fmt.Errorf("%w: %w", seal.ErrIO, err)
	}

	if !cfg.Quiet {
		fmt.Printf("Joined %d chunk(s) -> %q\n", len(ordered), out) //nolint:forbidigo
	}

	if cfg.Keep {
		return nil
	}

	for _, c := range ordered {
		if err := os.Remove(c); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing chunk %q: %v\n", c, err)
		}
	}

	return nil
}
