package logic

import (
	"fmt"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/passphrase"
	"github.com/idelchi/goseal/internal/seal"
)

// RunGenerate prints one passphrase from the configured policy to
// stdout and nothing else, so the output can be piped.
func RunGenerate(cfg *config.Config) error {
	if err := cfg.ValidateSettings(); err != nil {
		return fmt.Errorf("%w: %w", seal.ErrConfig, err)
	}

	buffer, err := passphrase.Generate(passphrase.Policy{Length: cfg.Length, Charset: cfg.Charset})
	if err != nil {
		return fmt.Errorf("generating passphrase: %w", err)
	}
	defer buffer.Close()

	fmt.Println(buffer.String()) //nolint:forbidigo

	return nil
}
