package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/renamaster/internal/check"
	"github.com/backmassage/renamaster/internal/daemon"
	"github.com/backmassage/renamaster/internal/prefs"
	"github.com/backmassage/renamaster/internal/transport"
)

// newRunCmd builds the daemon command: preflight, lock, event loop.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the rename daemon until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeLog()

			log.Info().Str("version", version).Msg("renamaster starting")

			if err := check.Preflight(cfg); err != nil {
				return err
			}

			store, err := prefs.Open(cfg.PrefsDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			local, err := transport.NewLocal(cfg.DataDir, log)
			if err != nil {
				return err
			}

			d, err := daemon.New(cfg, log, local, store)
			if err != nil {
				return err
			}
			defer d.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Run(ctx, local.Events(ctx)); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// newCheckCmd builds the diagnostics command.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg, working directories, and the preference database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeLog()

			check.RunCheck(cfg, log)
			return nil
		},
	}
}
