package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

func newPreviewCmd() *cobra.Command {
	var voice string
	var language string
	var out string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Audition a voice/language pair with a sample sentence",
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

			voiceID, langCode := resolveSelection(cfg, voice, language)
			payload, err := session.Preview(cmd.Context(), voiceID, langCode)
			if err != nil {
				return err
			}

			if out != "" {
				samples, err := audio.DecodeSamples(payload)
				if err != nil {
					return err
				}
				return writeOutput(out, audio.EncodeWAV(audio.PCMBytes(samples), audio.SampleRate), os.Stdout)
			}

			done, err := session.Play(payload)
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

	cmd.Flags().StringVar(&voice, "voice", "", "Voice persona (overrides config)")
	cmd.Flags().StringVar(&language, "language", "", "Language code (overrides config)")
	cmd.Flags().StringVar(&out, "out", "", "Write preview WAV to path instead of playing ('-' for stdout)")

	return cmd
}
