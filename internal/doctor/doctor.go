// Package doctor provides environment preflight checks for speechify.
package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// ProbeFunc checks one external prerequisite, returning an error when it is
// unavailable.
type ProbeFunc func() error

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Endpoint is the configured remote speech API URL. Empty fails the check.
	Endpoint string
	// APIKeySet reports whether an API key is configured.
	APIKeySet bool
	// ProbeEndpoint checks that the endpoint answers. Nil skips the probe.
	ProbeEndpoint ProbeFunc
	// StateDir is the directory used for persisted studio state.
	StateDir string
	// ProbeAudio checks that an output device can be opened. Nil skips it.
	ProbeAudio ProbeFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- API endpoint -----------------------------------------------------
	if cfg.Endpoint == "" {
		res.fail("api endpoint: not configured")
		fmt.Fprintf(w, "%s api endpoint: not configured (set api.endpoint)\n", FailMark)
	} else if cfg.ProbeEndpoint != nil {
		if err := cfg.ProbeEndpoint(); err != nil {
			res.fail(fmt.Sprintf("api endpoint: %v", err))
			fmt.Fprintf(w, "%s api endpoint %s: unreachable (%v)\n", FailMark, cfg.Endpoint, err)
		} else {
			fmt.Fprintf(w, "%s api endpoint: %s\n", PassMark, cfg.Endpoint)
		}
	} else {
		fmt.Fprintf(w, "%s api endpoint: %s (not probed)\n", PassMark, cfg.Endpoint)
	}

	// ---- API key ----------------------------------------------------------
	if cfg.APIKeySet {
		fmt.Fprintf(w, "%s api key: configured\n", PassMark)
	} else {
		res.fail("api key: not configured")
		fmt.Fprintf(w, "%s api key: not configured (set SPEECHIFY_API_KEY)\n", FailMark)
	}

	// ---- state directory --------------------------------------------------
	if err := checkStateDir(cfg.StateDir); err != nil {
		res.fail(fmt.Sprintf("state dir %q: %v", cfg.StateDir, err))
		fmt.Fprintf(w, "%s state dir %s: not writable (%v)\n", FailMark, cfg.StateDir, err)
	} else {
		fmt.Fprintf(w, "%s state dir: %s\n", PassMark, cfg.StateDir)
	}

	// ---- audio output -----------------------------------------------------
	if cfg.ProbeAudio == nil {
		fmt.Fprintf(w, "%s audio output: skipped\n", PassMark)
	} else if err := cfg.ProbeAudio(); err != nil {
		res.fail(fmt.Sprintf("audio output: %v", err))
		fmt.Fprintf(w, "%s audio output: unavailable (%v)\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s audio output: ok\n", PassMark)
	}

	return res
}

// checkStateDir verifies the state directory exists (creating it if needed)
// and is writable.
func checkStateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
