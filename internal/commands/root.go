package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the root command with the shared flag set.
// Flags, GOSEAL_* environment variables and the optional config file
// are collected through viper; subcommands unmarshal the result.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "goseal [flags] command [flags]",
		Short: "Prepare files for off-site backup",
		Long: `Prepares files for off-site backup: every selected file is encrypted with
its own generated passphrase and split into chunks of bounded size.
Provides commands for sealing, chunk reassembly, passphrase generation
and environment checks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viper.SetEnvPrefix("GOSEAL")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()

			if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
				viper.SetConfigFile(path)

				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config file: %w", err)
				}
			}

			return viper.BindPFlags(cmd.Flags())
		},
	}

	flags := root.PersistentFlags()

	flags.String("config", "", "Path to a YAML config file")

	flags.StringSliceP("type", "t", []string{"zip", "7z"}, "File types (extensions) selected when scanning directories")
	flags.StringSlice("exclude", nil, "Glob patterns excluding files, matched against base name and relative path")
	flags.String("exclude-from", "", "JSONC file with additional exclude patterns")

	flags.IntP("length", "l", 20, "Passphrase length")
	flags.String("charset", "alphanumeric", "Passphrase charset: alphanumeric, letters, digits or full")

	flags.StringP("split-size", "s", "1000MB", "Maximum chunk size, accepts humanized values like 3MB or 1GiB")
	flags.String("suffix", ".enc", "Suffix appended to encrypted artifacts")

	flags.StringP("backend", "b", "gpg", "Encryption backend: gpg or age")
	flags.String("cipher", "AES256", "Cipher algorithm (gpg backend)")
	flags.String("digest", "SHA256", "Digest algorithm (gpg backend)")
	flags.Int("compress-level", 0, "Compression level passed to gpg, 0 disables compression")

	flags.BoolP("rename", "r", false, "Rename artifacts through the template")
	flags.String("template", "{name}", "New base name; {name} expands to the input file name")

	flags.StringP("output-dir", "o", "", "Directory receiving chunks, defaults to each input's directory")
	flags.StringP("key-file", "k", "", "Write passphrase records to this file instead of stdout")

	flags.BoolP("delete", "d", false, "Delete the source file after a fully successful job")
	flags.Bool("dry", false, "Preview selection and chunk plan without touching anything")
	flags.BoolP("yes", "y", false, "Skip the confirmation prompt")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a run summary to stderr")

	root.AddCommand(
		NewSealCommand(),
		NewJoinCommand(),
		NewGenerateCommand(),
		NewCheckCommand(),
	)

	return root
}
