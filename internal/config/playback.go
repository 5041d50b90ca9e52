package config

import (
	"fmt"
	"strings"
)

const (
	PlaybackPortAudio = "portaudio"
	PlaybackNone      = "none"
)

// NormalizePlayback canonicalizes the playback output setting. An empty
// value selects PortAudio.
func NormalizePlayback(raw string) (string, error) {
	playback := strings.ToLower(strings.TrimSpace(raw))
	if playback == "" {
		return PlaybackPortAudio, nil
	}
	switch playback {
	case PlaybackPortAudio, PlaybackNone:
		return playback, nil
	case "off", "null":
		return PlaybackNone, nil
	default:
		return "", fmt.Errorf(
			"invalid playback output %q (expected %s|%s)",
			raw,
			PlaybackPortAudio,
			PlaybackNone,
		)
	}
}
