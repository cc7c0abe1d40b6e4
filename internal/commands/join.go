package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/logic"
)

// NewJoinCommand creates the cobra command for the join subcommand.
func NewJoinCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join [flags] chunks...",
		Short: "Reassemble a chunk set into the encrypted artifact",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			return logic.RunJoin(cfg)
		},
	}

	cmd.Flags().String("output", "", "Output path, defaults to the chunk names with the index stripped")
	cmd.Flags().Bool("keep", false, "Keep the chunks after a successful join")

	return cmd
}
