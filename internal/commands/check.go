package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/logic"
)

// NewCheckCommand creates the cobra command for the check subcommand.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Validate configuration and environment",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			return logic.RunCheck(cfg)
		},
	}
}
