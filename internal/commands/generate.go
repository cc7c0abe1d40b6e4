package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/logic"
)

// NewGenerateCommand creates the cobra command for the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate and print one passphrase using the configured policy",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}

			return logic.RunGenerate(cfg)
		},
	}
}
