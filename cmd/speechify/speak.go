package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

func newSpeakCmd() *cobra.Command {
	var scriptText string
	var out string
	var voice string
	var language string
	var noPlay bool
	var normalize bool
	var fadeInMS float64
	var fadeOutMS float64

	cmd := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize script text, archive it, and play or save the audio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readScript(scriptText, os.Stdin)
			if err != nil {
				return err
			}

			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			voiceID, langCode := resolveSelection(cfg, voice, language)
			entry, err := session.Synthesize(cmd.Context(), input, voiceID, langCode)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stderr, "archived %s (%s, %s)\n", entry.ID, entry.VoiceLabel, entry.LanguageName)

			if out != "" {
				samples, err := audio.DecodeSamples(entry.AudioData)
				if err != nil {
					return err
				}

				var data []byte
				if normalize || fadeInMS > 0 || fadeOutMS > 0 {
					floats := applyHooks(audio.ToFloat32(samples), normalize, fadeInMS, fadeOutMS)
					data, err = audio.EncodeWAVFloat(floats)
					if err != nil {
						return err
					}
				} else {
					data = audio.EncodeWAV(audio.PCMBytes(samples), audio.SampleRate)
				}

				return writeOutput(out, data, os.Stdout)
			}

			if noPlay {
				return nil
			}

			done, err := session.Play(entry.AudioData)
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

	cmd.Flags().StringVar(&scriptText, "text", "", "Script text (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "", "Write WAV to path instead of playing ('-' for stdout)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice persona (overrides config)")
	cmd.Flags().StringVar(&language, "language", "", "Language code (overrides config)")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Archive only; skip playback")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Peak-normalize saved audio")
	cmd.Flags().Float64Var(&fadeInMS, "fade-in-ms", 0, "Linear fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&fadeOutMS, "fade-out-ms", 0, "Linear fade-out duration in milliseconds")

	return cmd
}

func applyHooks(samples []float32, normalize bool, fadeInMS, fadeOutMS float64) []float32 {
	var hooks []audio.Hook
	if normalize {
		hooks = append(hooks, audio.PeakNormalize)
	}
	if fadeInMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeIn(s, audio.SampleRate, fadeInMS)
		})
	}
	if fadeOutMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeOut(s, audio.SampleRate, fadeOutMS)
		})
	}

	return audio.ApplyHooks(samples, hooks...)
}

// readScript returns flag text when present, otherwise reads stdin.
func readScript(flagText string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(flagText) != "" {
		return flagText, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
