package studio

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
	"github.com/website-designer-freelancer-in/speechify/internal/history"
	"github.com/website-designer-freelancer-in/speechify/internal/player"
	"github.com/website-designer-freelancer-in/speechify/internal/testutil"
)

// fakeSynth returns a fixed two-sample payload per call and records call
// counts per (text, voice).
type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (f *fakeSynth) Synthesize(_ context.Context, scriptText, voiceID string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, voiceID+":"+scriptText)
	f.mu.Unlock()

	if f.fail != nil {
		return "", f.fail
	}
	return testutil.PCMPayload([]int16{100, -100}), nil
}

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSession(t *testing.T, fs *fakeSynth) *Session {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 0, quietLogger())
	return NewSession(Deps{
		Synth:   fs,
		History: store,
		Player:  player.NewController(player.OpenNull),
		Logger:  quietLogger(),
	})
}

func TestSynthesizeArchivesEntry(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)

	entry, err := s.Synthesize(context.Background(), "  Hello world.  ", "zephyr", "en-US")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if entry.ID == "" {
		t.Error("entry has no ID")
	}
	if entry.Text != "Hello world." {
		t.Errorf("text %q, want normalized script", entry.Text)
	}
	if entry.VoiceLabel == "" || entry.LanguageName == "" {
		t.Error("entry missing display labels")
	}

	got := s.History()
	if len(got) != 1 || got[0].ID != entry.ID {
		t.Fatalf("history %v, want the new entry", got)
	}

	samples, err := audio.DecodeSamples(entry.AudioData)
	if err != nil {
		t.Fatalf("archived payload corrupt: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("got %d samples, want 2", len(samples))
	}
}

func TestSynthesizeChunksLongScripts(t *testing.T) {
	fs := &fakeSynth{}
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 0, quietLogger())
	s := NewSession(Deps{
		Synth:          fs,
		History:        store,
		Player:         player.NewController(player.OpenNull),
		Logger:         quietLogger(),
		MaxScriptChars: 30,
	})

	script := "First sentence goes here. Second sentence goes here. Third one!"
	entry, err := s.Synthesize(context.Background(), script, "zephyr", "en-US")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if fs.callCount() < 2 {
		t.Errorf("made %d remote calls, want chunked calls", fs.callCount())
	}

	// Concatenated chunk audio: 2 samples per call.
	samples, _ := audio.DecodeSamples(entry.AudioData)
	if len(samples) != fs.callCount()*2 {
		t.Errorf("got %d samples from %d calls", len(samples), fs.callCount())
	}
}

func TestSynthesizeValidation(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)
	ctx := context.Background()

	if _, err := s.Synthesize(ctx, "   ", "zephyr", "en-US"); err == nil {
		t.Error("empty script accepted")
	}
	if _, err := s.Synthesize(ctx, "hi", "no-such-voice", "en-US"); err == nil {
		t.Error("unknown voice accepted")
	}
	if _, err := s.Synthesize(ctx, "hi", "zephyr", "xx-XX"); err == nil {
		t.Error("unknown language accepted")
	}
	if fs.callCount() != 0 {
		t.Errorf("%d remote calls made for invalid input", fs.callCount())
	}
}

func TestSynthesizeFailureLeavesHistoryUnchanged(t *testing.T) {
	fs := &fakeSynth{fail: errors.New("remote down")}
	s := newTestSession(t, fs)

	if _, err := s.Synthesize(context.Background(), "hello", "zephyr", "en-US"); err == nil {
		t.Fatal("expected error")
	}
	if len(s.History()) != 0 {
		t.Error("failed synthesis left a history entry")
	}
}

func TestPreviewCaches(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)
	ctx := context.Background()

	first, err := s.Preview(ctx, "zephyr", "en-US")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	second, err := s.Preview(ctx, "zephyr", "en-US")
	if err != nil {
		t.Fatalf("Preview (cached): %v", err)
	}

	if first != second {
		t.Error("cache hit returned a different payload")
	}
	if fs.callCount() != 1 {
		t.Errorf("made %d remote calls, want 1", fs.callCount())
	}

	// A different pair is a miss.
	if _, err := s.Preview(ctx, "puck", "en-US"); err != nil {
		t.Fatalf("Preview (other voice): %v", err)
	}
	if fs.callCount() != 2 {
		t.Errorf("made %d remote calls, want 2", fs.callCount())
	}
}

func TestPreviewUsesLanguageSentence(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)

	if _, err := s.Preview(context.Background(), "zephyr", "de-DE"); err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(fs.calls) != 1 || !strings.Contains(fs.calls[0], "Hallo") {
		t.Errorf("remote call %q, want German sample sentence", fs.calls)
	}
}

func TestPlayEntryAndExport(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)

	entry, err := s.Synthesize(context.Background(), "hello", "zephyr", "en-US")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	done, err := s.PlayEntry(entry.ID)
	if err != nil {
		t.Fatalf("PlayEntry: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("playback never completed")
	}

	data, name, err := s.Export(entry.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "speechify-"+entry.ID+".wav" {
		t.Errorf("filename %q", name)
	}
	if len(data) != 44+4 {
		t.Errorf("export %d bytes, want 48", len(data))
	}

	if _, _, err := s.Export("missing"); err == nil {
		t.Error("export of missing entry succeeded")
	}
	if _, err := s.PlayEntry("missing"); err == nil {
		t.Error("play of missing entry succeeded")
	}
}

func TestRemoveAndClear(t *testing.T) {
	fs := &fakeSynth{}
	s := newTestSession(t, fs)
	ctx := context.Background()

	e1, _ := s.Synthesize(ctx, "one", "zephyr", "en-US")
	_, _ = s.Synthesize(ctx, "two", "zephyr", "en-US")

	s.Remove(e1.ID)
	if len(s.History()) != 1 {
		t.Fatalf("history length %d after remove, want 1", len(s.History()))
	}

	s.ClearHistory()
	if len(s.History()) != 0 {
		t.Errorf("history length %d after clear, want 0", len(s.History()))
	}
}

func TestPlayFile(t *testing.T) {
	s := newTestSession(t, &fakeSynth{})

	wavData := audio.EncodeWAV(audio.PCMBytes([]int16{100, -100, 200, -200}), audio.SampleRate)
	done, err := s.PlayFile(wavData)
	if err != nil {
		t.Fatalf("PlayFile: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("playback did not complete")
	}

	if _, err := s.PlayFile([]byte("not audio")); err == nil {
		t.Error("played junk bytes without error")
	}
}

func TestStopWhileIdle(t *testing.T) {
	s := newTestSession(t, &fakeSynth{})
	s.Stop() // must not panic
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEntryIDsAreCreationOrdered(t *testing.T) {
	a := newEntryID()
	time.Sleep(2 * time.Millisecond)
	b := newEntryID()

	if !(a < b) {
		t.Errorf("IDs %q and %q not creation-ordered", a, b)
	}
}
