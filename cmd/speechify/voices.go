package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/catalog"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available voices and languages",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			cat := catalog.Default()
			if cfg.Paths.CatalogPath != "" {
				cat, err = catalog.Load(cfg.Paths.CatalogPath)
				if err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "VOICE\tLABEL")
			for _, v := range cat.Voices() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", v.ID, v.Label)
			}
			_, _ = fmt.Fprintln(w, "\nLANGUAGE\tNAME")
			for _, l := range cat.Languages() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
			}
			return w.Flush()
		},
	}
}
