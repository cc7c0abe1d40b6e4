package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/logic"
)

// NewSealCommand creates the cobra command for the seal subcommand.
func NewSealCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seal [flags] paths...",
		Short: "Encrypt files with generated passphrases and split them into chunks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			return logic.Run(cfg)
		},
	}
}
