// Package history keeps the bounded, persisted archive of synthesis
// results. The archive is cached state, not source of truth: persistence
// failures are logged and the in-memory sequence stays authoritative for
// the session.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

// DefaultLimit bounds the archive. Appending beyond it evicts oldest-first.
const DefaultLimit = 50

// snapshotVersion is the persisted schema version. Snapshots with any other
// version load as empty.
const snapshotVersion = 1

// Entry is one archived synthesis result. Entries are immutable once
// created.
type Entry struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	VoiceID      string    `json:"voice_id"`
	VoiceLabel   string    `json:"voice_label"`
	LanguageCode string    `json:"language_code"`
	LanguageName string    `json:"language_name"`
	CreatedAt    time.Time `json:"created_at"`
	// AudioData is base64-encoded raw PCM, 24000 Hz mono 16-bit.
	AudioData string `json:"audio_data"`
}

type snapshot struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Store holds the archive, newest-first. All mutations re-persist the full
// sequence atomically.
type Store struct {
	path   string
	limit  int
	logger *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

// NewStore opens the archive persisted at path. A missing, corrupt, or
// version-mismatched snapshot yields an empty archive; corruption is logged,
// never fatal. A limit of 0 means DefaultLimit.
func NewStore(path string, limit int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s := &Store{
		path:   path,
		limit:  limit,
		logger: logger.With(slog.String("component", "history")),
	}
	s.load()

	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read history snapshot, starting empty",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("corrupt history snapshot, starting empty",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return
	}
	if snap.Version != snapshotVersion {
		s.logger.Warn("unsupported history snapshot version, starting empty",
			slog.String("path", s.path),
			slog.Int("version", snap.Version))
		return
	}

	entries := snap.Entries[:0:0]
	for _, e := range snap.Entries {
		if e.ID == "" {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	s.entries = entries
}

// Append prepends an entry and truncates the archive to its bound, then
// persists the full sequence. Persistence failures are logged; the
// in-memory archive keeps the entry regardless.
func (s *Store) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}

	s.persist()
}

// Remove deletes the entry with the given ID and persists. Absent IDs are
// a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0:0]
	removed := false
	for _, e := range s.entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return
	}

	s.entries = kept
	s.persist()
}

// Clear empties the archive and removes the persisted snapshot entirely, so
// a subsequent load sees an uninitialized store rather than an empty one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove history snapshot",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}
}

// Entries returns the archive newest-first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Entry(nil), s.entries...)
}

// Get looks up an entry by ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len reports the number of archived entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// persist writes the full sequence atomically via a temp file so the prior
// snapshot stays intact until the new one replaces it. Caller holds the lock.
func (s *Store) persist() {
	snap := snapshot{Version: snapshotVersion, Entries: s.entries}
	if snap.Entries == nil {
		snap.Entries = []Entry{}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("failed to encode history snapshot",
			slog.String("error", err.Error()))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("failed to create history directory",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Warn("failed to write history snapshot",
			slog.String("path", tmp),
			slog.String("error", err.Error()))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		s.logger.Warn("failed to replace history snapshot",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}
}

// ExportWAV renders an entry's payload as a downloadable WAV file.
func ExportWAV(entry Entry) ([]byte, error) {
	samples, err := audio.DecodeSamples(entry.AudioData)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	return audio.EncodeWAV(audio.PCMBytes(samples), audio.SampleRate), nil
}

// ExportFilename is the download name for an entry's WAV file.
func ExportFilename(entry Entry) string {
	return fmt.Sprintf("speechify-%s.wav", entry.ID)
}
