package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/catalog"
	"github.com/website-designer-freelancer-in/speechify/internal/config"
	"github.com/website-designer-freelancer-in/speechify/internal/history"
	"github.com/website-designer-freelancer-in/speechify/internal/player"
	"github.com/website-designer-freelancer-in/speechify/internal/server"
	"github.com/website-designer-freelancer-in/speechify/internal/studio"
	"github.com/website-designer-freelancer-in/speechify/internal/synth"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "speechify",
		Short: "Speechify text-to-speech studio",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSpeakCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVoicesCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newHealthCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// newSession assembles a studio session from the active configuration.
func newSession(cfg config.Config) (*studio.Session, error) {
	cat := catalog.Default()
	if cfg.Paths.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.Paths.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	store := history.NewStore(historyPath, cfg.Studio.HistoryLimit, slog.Default())

	playback, err := config.NormalizePlayback(cfg.Studio.Playback)
	if err != nil {
		return nil, err
	}
	openDevice := player.OpenPortAudio
	if playback == config.PlaybackNone {
		openDevice = player.OpenNull
	}

	client := synth.NewClient(cfg.API.Endpoint, cfg.API.Key,
		synth.WithTimeout(time.Duration(cfg.API.Timeout)*time.Second))

	return studio.NewSession(studio.Deps{
		Synth:   client,
		Catalog: cat,
		History: store,
		Player:  player.NewController(openDevice),
		Logger:  slog.Default(),
	}), nil
}

// resolveSelection applies config defaults under flag overrides.
func resolveSelection(cfg config.Config, voice, language string) (string, string) {
	if voice == "" {
		voice = cfg.Studio.Voice
	}
	if language == "" {
		language = cfg.Studio.Language
	}
	return voice, language
}
