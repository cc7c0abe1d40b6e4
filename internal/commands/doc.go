// Package commands provides the command-line interface for the goseal tool.
//
// It implements commands for:
//   - sealing files (passphrase generation, encryption, chunking)
//   - reassembling chunk sets
//   - passphrase generation
//   - configuration and environment checks
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/idelchi/goseal/internal/config"
)

// loadConfig unmarshals everything viper collected (flags, environment,
// config file) into a Config and attaches the positional arguments.
func loadConfig(args []string) (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Files = args

	return &cfg, nil
}
