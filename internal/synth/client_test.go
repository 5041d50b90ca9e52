package synth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSynthesize(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0x02, 0x03})

	t.Run("returns audio payload", func(t *testing.T) {
		var gotAuth, gotText, gotVoice string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			var req struct {
				Text  string `json:"text"`
				Voice string `json:"voice"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotText, gotVoice = req.Text, req.Voice
			_ = json.NewEncoder(w).Encode(map[string]string{"audio": payload})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret")
		got, err := c.Synthesize(context.Background(), "read this", "zephyr")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != payload {
			t.Errorf("payload %q, want %q", got, payload)
		}
		if gotAuth != "Bearer secret" {
			t.Errorf("authorization %q, want bearer token", gotAuth)
		}
		if gotText != "read this" || gotVoice != "zephyr" {
			t.Errorf("request carried (%q, %q)", gotText, gotVoice)
		}
	})

	t.Run("empty audio is a synthesis error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"audio": ""})
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").Synthesize(context.Background(), "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})

	t.Run("error field is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").Synthesize(context.Background(), "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})

	t.Run("non-2xx status is a synthesis error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").Synthesize(context.Background(), "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})

	t.Run("transport failure is a synthesis error", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:1", "").Synthesize(context.Background(), "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})

	t.Run("missing endpoint is a synthesis error", func(t *testing.T) {
		_, err := NewClient("", "").Synthesize(context.Background(), "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewClient(srv.URL, "").Synthesize(ctx, "text", "v")
		if !errors.Is(err, ErrSynthesis) {
			t.Fatalf("got %v, want ErrSynthesis", err)
		}
	})
}

func TestClientOptions(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		c := NewClient("https://speech.example/v1", "")
		if c.httpc.Timeout != DefaultTimeout {
			t.Errorf("timeout %v, want %v", c.httpc.Timeout, DefaultTimeout)
		}
	})

	t.Run("timeout survives option order", func(t *testing.T) {
		hc := &http.Client{}
		c := NewClient("https://speech.example/v1", "",
			WithTimeout(5*time.Second),
			WithHTTPClient(hc),
		)
		if c.httpc.Timeout != 5*time.Second {
			t.Errorf("timeout %v, want 5s", c.httpc.Timeout)
		}
		if hc.Timeout != 0 {
			t.Errorf("caller-owned client mutated: timeout %v", hc.Timeout)
		}
	})

	t.Run("custom client keeps its own timeout", func(t *testing.T) {
		hc := &http.Client{Timeout: 7 * time.Second}
		c := NewClient("https://speech.example/v1", "", WithHTTPClient(hc))
		if c.httpc.Timeout != 7*time.Second {
			t.Errorf("timeout %v, want 7s", c.httpc.Timeout)
		}
	})
}

func TestPreviewSentence(t *testing.T) {
	if PreviewSentence("de-DE") == PreviewSentence("ja-JP") {
		t.Error("expected language-specific sentences")
	}
	if PreviewSentence("xx-XX") != PreviewSentence("en-US") {
		t.Error("unknown language should fall back to English")
	}
}
