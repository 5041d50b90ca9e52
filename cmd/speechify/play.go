package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file.wav>",
		Short: "Play a studio-format WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			done, err := session.PlayFile(data)
			if err != nil {
				return err
			}
			select {
			case <-done:
				return nil
			case <-cmd.Context().Done():
				session.Stop()
				return cmd.Context().Err()
			}
		},
	}
}
