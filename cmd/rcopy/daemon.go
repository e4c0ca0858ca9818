package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaladdle/rcopy/internal/daemon"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run an rcopy daemon (not implemented)",
		Long: `Run an rcopy daemon listening on --listen.

The daemon surface is reserved: the address is resolved and validated, then
the command exits with a "not implemented" error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDaemon,
	}
	cmd.Flags().String("listen", daemon.DefaultListen, "listen address (host:port)")
	return cmd
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	listenAddr, _ := cmd.Flags().GetString("listen") //nolint:errcheck // flag name is hardcoded

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	d, err := daemon.New(listenAddr, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Serve(ctx)
}

