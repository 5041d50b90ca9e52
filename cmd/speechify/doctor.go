package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/website-designer-freelancer-in/speechify/internal/config"
	"github.com/website-designer-freelancer-in/speechify/internal/doctor"
	"github.com/website-designer-freelancer-in/speechify/internal/player"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment for common problems",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			stateDir, err := cfg.ResolveStateDir()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				Endpoint:  cfg.API.Endpoint,
				APIKeySet: cfg.API.Key != "",
				StateDir:  stateDir,
			}
			if cfg.API.Endpoint != "" {
				dcfg.ProbeEndpoint = probeEndpoint(cfg.API.Endpoint)
			}

			mode, err := config.NormalizePlayback(cfg.Studio.Playback)
			if err != nil {
				return err
			}
			if mode == config.PlaybackPortAudio {
				dcfg.ProbeAudio = probeAudio
			}

			res := doctor.Run(dcfg, os.Stdout)
			if res.Failed() {
				return fmt.Errorf("%d check(s) failed", len(res.Failures()))
			}
			return nil
		},
	}
}

// probeEndpoint reports whether the speech API host answers at all. Any HTTP
// status counts as reachable; only transport errors fail the check.
func probeEndpoint(endpoint string) doctor.ProbeFunc {
	return func() error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Head(endpoint) //nolint:noctx
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

func probeAudio() error {
	dev, err := player.OpenPortAudio()
	if err != nil {
		return err
	}
	return dev.Close()
}
