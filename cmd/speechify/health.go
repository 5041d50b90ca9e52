package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/server"
)

func newHealthCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe a running server's health endpoint",
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				cfg, err := requireConfig()
				if err != nil {
					return err
				}
				addr = cfg.Server.ListenAddr
			}
			if err := server.ProbeHTTP(addr); err != nil {
				return fmt.Errorf("health probe failed: %w", err)
			}
			_, _ = fmt.Fprintln(os.Stdout, "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Server address to probe (default: configured listen address)")

	return cmd
}
