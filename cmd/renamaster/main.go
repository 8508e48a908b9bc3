// Command renamaster is the entrypoint for the rename daemon. It loads
// config, builds the logger, and dispatches to the run, check, and prefs
// subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/logging"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "renamaster",
		Short:         "Automated rename daemon for inbound media files",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to TOML config file")

	root.AddCommand(newRunCmd(), newCheckCmd(), newPrefsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "renamaster: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads and validates config, then builds the root logger.
// Every subcommand starts here.
func bootstrap() (*config.Config, zerolog.Logger, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	return &cfg, log, closeLog, nil
}
