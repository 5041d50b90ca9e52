package main

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the studio HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("starting server", "addr", cfg.Server.ListenAddr)

			srv := server.New(cfg, session).
				WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)
			return srv.Start(ctx)
		},
	}
}
