// Package server exposes the studio to the browser UI over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
	"github.com/website-designer-freelancer-in/speechify/internal/config"
	"github.com/website-designer-freelancer-in/speechify/internal/history"
	"github.com/website-designer-freelancer-in/speechify/internal/studio"
	"github.com/website-designer-freelancer-in/speechify/internal/synth"
	"github.com/website-designer-freelancer-in/speechify/internal/text"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   8192,
		workers:        2,
		requestTimeout: 90 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed script length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent synthesis calls.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request synthesis deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	session *studio.Session
	opts    options
	sem     chan struct{} // semaphore for concurrent synthesis
	log     *slog.Logger
}

// NewHandler returns the studio's HTTP API handler.
func NewHandler(session *studio.Session, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		session: session,
		opts:    opts,
		log:     opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /voices", h.handleVoices)
	mux.HandleFunc("GET /languages", h.handleLanguages)
	mux.HandleFunc("POST /synthesize", h.handleSynthesize)
	mux.HandleFunc("POST /preview", h.handlePreview)
	mux.HandleFunc("GET /history", h.handleHistoryList)
	mux.HandleFunc("DELETE /history", h.handleHistoryClear)
	mux.HandleFunc("DELETE /history/{id}", h.handleHistoryDelete)
	mux.HandleFunc("GET /history/{id}/export", h.handleHistoryExport)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVoices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Catalog().Voices())
}

func (h *handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Catalog().Languages())
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

type previewRequest struct {
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

func (h *handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}
	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	release, ok := h.acquire(r)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
		return
	}
	defer release()

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	entry, err := h.session.Synthesize(ctx, req.Text, req.Voice, req.Language)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		h.writeSynthesisError(w, r, err, req.Voice, len(req.Text), durationMS)
		return
	}

	h.log.InfoContext(r.Context(), "synthesis complete",
		slog.String("entry_id", entry.ID),
		slog.String("voice", entry.VoiceID),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, entry)
}

func (h *handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	release, ok := h.acquire(r)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
		return
	}
	defer release()

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	payload, err := h.session.Preview(ctx, req.Voice, req.Language)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		h.writeSynthesisError(w, r, err, req.Voice, 0, durationMS)
		return
	}

	samples, err := audio.DecodeSamples(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	wav := audio.EncodeWAV(audio.PCMBytes(samples), audio.SampleRate)

	h.log.InfoContext(r.Context(), "preview served",
		slog.String("voice", req.Voice),
		slog.String("language", req.Language),
		slog.Int64("duration_ms", durationMS),
		slog.Int("wav_bytes", len(wav)),
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}

func (h *handler) handleHistoryList(w http.ResponseWriter, _ *http.Request) {
	entries := h.session.History()
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) handleHistoryClear(w http.ResponseWriter, _ *http.Request) {
	h.session.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	h.session.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, filename, err := h.session.Export(id)
	if err != nil {
		if _, ok := h.session.Entry(id); !ok {
			writeError(w, http.StatusNotFound, "no such history entry")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// acquire takes a worker slot, honouring context cancellation while waiting.
func (h *handler) acquire(r *http.Request) (func(), bool) {
	if h.sem == nil {
		return func() {}, true
	}
	select {
	case h.sem <- struct{}{}:
		return func() { <-h.sem }, true
	case <-r.Context().Done():
		return nil, false
	}
}

func (h *handler) writeSynthesisError(w http.ResponseWriter, r *http.Request, err error, voice string, textLen int, durationMS int64) {
	attrs := []any{
		slog.String("voice", voice),
		slog.Int("text_len", textLen),
		slog.Int64("duration_ms", durationMS),
		slog.String("error", err.Error()),
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		h.log.WarnContext(r.Context(), "synthesis timed out", attrs...)
		writeError(w, http.StatusGatewayTimeout, "synthesis timed out")
	case errors.Is(err, text.ErrEmptyScript):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, audio.ErrMalformedPayload):
		h.log.ErrorContext(r.Context(), "remote returned corrupt audio", attrs...)
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, synth.ErrSynthesis):
		h.log.ErrorContext(r.Context(), "synthesis failed", attrs...)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "synthesis failed", attrs...)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires the handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server runs the studio HTTP API with graceful shutdown.
type Server struct {
	cfg             config.Config
	session         *studio.Session
	shutdownTimeout time.Duration
}

func New(cfg config.Config, session *studio.Session) *Server {
	return &Server{
		cfg:             cfg,
		session:         session,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.session,
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks a running server's health endpoint.
func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
