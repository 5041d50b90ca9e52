package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the synthesis archive",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryPlayCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived entries, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			entries := session.History()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(os.Stdout, "history is empty")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tCREATED\tVOICE\tLANGUAGE\tTEXT")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.ID,
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.VoiceLabel,
					e.LanguageName,
					truncate(e.Text, 48),
				)
			}
			return w.Flush()
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export an archived entry as a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			data, filename, err := session.Export(args[0])
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filename
			}
			if err := writeOutput(path, data, os.Stdout); err != nil {
				return err
			}
			if path != "-" {
				_, _ = fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", path, len(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default: the entry's export filename; '-' for stdout)")

	return cmd
}

func newHistoryPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Play an archived entry",
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

			done, err := session.PlayEntry(args[0])
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

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			session.Remove(args[0])
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe the entire archive",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			session.ClearHistory()
			return nil
		},
	}
}

// truncate shortens s to at most max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
