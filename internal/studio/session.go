// Package studio wires the synthesis client, sample cache, history archive,
// and playback controller into one session with explicit lifecycle. A
// Session is the application's unit of state: create one at startup, Close
// it at exit.
package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
	"github.com/website-designer-freelancer-in/speechify/internal/cache"
	"github.com/website-designer-freelancer-in/speechify/internal/catalog"
	"github.com/website-designer-freelancer-in/speechify/internal/history"
	"github.com/website-designer-freelancer-in/speechify/internal/player"
	"github.com/website-designer-freelancer-in/speechify/internal/synth"
	"github.com/website-designer-freelancer-in/speechify/internal/text"
)

// Synthesizer is the remote speech boundary: script text plus a voice ID in,
// base64 PCM payload out.
type Synthesizer interface {
	Synthesize(ctx context.Context, scriptText, voiceID string) (string, error)
}

// Deps are the collaborators a Session owns.
type Deps struct {
	Synth   Synthesizer
	Catalog *catalog.Catalog
	History *history.Store
	Player  *player.Controller
	Logger  *slog.Logger

	// MaxScriptChars bounds a single remote call; longer scripts are
	// chunked. Zero means text.MaxScriptChars.
	MaxScriptChars int
}

// Session is the studio's application state.
type Session struct {
	synth    Synthesizer
	catalog  *catalog.Catalog
	previews *cache.SampleCache
	history  *history.Store
	player   *player.Controller
	logger   *slog.Logger
	maxChars int
}

// NewSession builds a session. The preview cache starts empty and lives
// exactly as long as the session.
func NewSession(deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxChars := deps.MaxScriptChars
	if maxChars <= 0 {
		maxChars = text.MaxScriptChars
	}
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	return &Session{
		synth:    deps.Synth,
		catalog:  cat,
		previews: cache.New(),
		history:  deps.History,
		player:   deps.Player,
		logger:   logger.With(slog.String("component", "studio")),
		maxChars: maxChars,
	}
}

// Catalog exposes the session's voice/language catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Synthesize runs the full pipeline: normalize the script, synthesize it
// (chunked when long), validate the payload, and archive the result. The
// returned entry is already in history.
func (s *Session) Synthesize(ctx context.Context, scriptText, voiceID, langCode string) (history.Entry, error) {
	script, err := text.Normalize(scriptText)
	if err != nil {
		return history.Entry{}, err
	}

	voice, err := s.catalog.Voice(voiceID)
	if err != nil {
		return history.Entry{}, err
	}
	lang, err := s.catalog.Language(langCode)
	if err != nil {
		return history.Entry{}, err
	}

	start := time.Now()
	var samples []int16
	for _, chunk := range text.SplitChunks(script, s.maxChars) {
		payload, err := s.synth.Synthesize(ctx, chunk, voice.ID)
		if err != nil {
			return history.Entry{}, err
		}

		chunkSamples, err := audio.DecodeSamples(payload)
		if err != nil {
			return history.Entry{}, err
		}
		samples = append(samples, chunkSamples...)
	}

	entry := history.Entry{
		ID:           newEntryID(),
		Text:         script,
		VoiceID:      voice.ID,
		VoiceLabel:   voice.Label,
		LanguageCode: lang.Code,
		LanguageName: lang.Name,
		CreatedAt:    time.Now().UTC(),
		AudioData:    base64.StdEncoding.EncodeToString(audio.PCMBytes(samples)),
	}
	s.history.Append(entry)

	s.logger.Info("synthesis archived",
		slog.String("entry_id", entry.ID),
		slog.String("voice", voice.ID),
		slog.String("language", lang.Code),
		slog.Int("samples", len(samples)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return entry, nil
}

// Preview returns the sample-sentence payload for a voice/language pair,
// short-circuiting the remote call when the pair was already previewed this
// session. A hit returns the exact payload that was cached.
func (s *Session) Preview(ctx context.Context, voiceID, langCode string) (string, error) {
	voice, err := s.catalog.Voice(voiceID)
	if err != nil {
		return "", err
	}
	lang, err := s.catalog.Language(langCode)
	if err != nil {
		return "", err
	}

	if payload, ok := s.previews.Get(voice.ID, lang.Code); ok {
		s.logger.Debug("preview cache hit",
			slog.String("voice", voice.ID),
			slog.String("language", lang.Code))
		return payload, nil
	}

	payload, err := s.synth.Synthesize(ctx, synth.PreviewSentence(lang.Code), voice.ID)
	if err != nil {
		return "", err
	}
	if _, err := audio.DecodeSamples(payload); err != nil {
		return "", err
	}

	s.previews.Put(voice.ID, lang.Code, payload)

	return payload, nil
}

// Play starts payload playback, preempting any active stream.
func (s *Session) Play(payload string) (<-chan struct{}, error) {
	return s.player.Play(payload)
}

// PlayFile decodes a studio-format WAV file and plays it, preempting any
// active stream.
func (s *Session) PlayFile(data []byte) (<-chan struct{}, error) {
	floats, err := audio.DecodeWAV(data)
	if err != nil {
		return nil, err
	}
	return s.player.PlaySamples(audio.FromFloat32(floats))
}

// PlayEntry plays an archived entry.
func (s *Session) PlayEntry(id string) (<-chan struct{}, error) {
	entry, ok := s.history.Get(id)
	if !ok {
		return nil, fmt.Errorf("no history entry %q", id)
	}
	return s.player.Play(entry.AudioData)
}

// Stop halts playback. No-op while idle.
func (s *Session) Stop() {
	s.player.Stop()
}

// Export renders an archived entry as a WAV file plus its download name.
func (s *Session) Export(id string) ([]byte, string, error) {
	entry, ok := s.history.Get(id)
	if !ok {
		return nil, "", fmt.Errorf("no history entry %q", id)
	}

	data, err := history.ExportWAV(entry)
	if err != nil {
		return nil, "", err
	}

	return data, history.ExportFilename(entry), nil
}

// History returns archived entries, newest-first.
func (s *Session) History() []history.Entry {
	return s.history.Entries()
}

// Entry looks up one archived entry.
func (s *Session) Entry(id string) (history.Entry, bool) {
	return s.history.Get(id)
}

// Remove deletes one archived entry.
func (s *Session) Remove(id string) {
	s.history.Remove(id)
}

// ClearHistory wipes the archive and its persisted snapshot.
func (s *Session) ClearHistory() {
	s.history.Clear()
}

// Close stops playback and releases the output device.
func (s *Session) Close() error {
	return s.player.Close()
}

// newEntryID builds an opaque identifier that sorts in creation order: a
// base36 millisecond timestamp followed by a random suffix.
func newEntryID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.NewString()[:8]
}
