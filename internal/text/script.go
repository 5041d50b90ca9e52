// Package text prepares script text for remote synthesis.
package text

import (
	"errors"
	"strings"
)

// MaxScriptChars is the per-request text limit enforced by the remote speech
// API. Longer scripts are split at sentence boundaries and synthesized in
// parts.
const MaxScriptChars = 4000

// ErrEmptyScript is returned when the input text is empty or whitespace-only.
var ErrEmptyScript = errors.New("script is empty")

// Normalize prepares raw script text for synthesis.
// It trims surrounding whitespace, normalizes line endings to \n,
// and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyScript
	}

	return s, nil
}

// SplitChunks splits a script into chunks at sentence boundaries (., !, ?),
// grouping consecutive sentences while staying within maxChars per chunk.
// If maxChars is 0 or the script fits, a single chunk is returned.
// A sentence that individually exceeds maxChars is kept intact.
func SplitChunks(script string, maxChars int) []string {
	if maxChars <= 0 || len(script) <= maxChars {
		return []string{script}
	}

	sentences := splitSentences(script)
	if len(sentences) <= 1 {
		return []string{script}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range sentences {
		if current.Len() == 0 {
			current.WriteString(s)
			continue
		}
		if current.Len()+1+len(s) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(s)
		} else {
			current.WriteByte(' ')
			current.WriteString(s)
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences splits text on sentence-ending punctuation, keeping the
// terminator attached to its sentence. Empty segments are dropped.
func splitSentences(script string) []string {
	var sentences []string
	start := 0

	for i, r := range script {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(script[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}

	if start < len(script) {
		s := strings.TrimSpace(script[start:])
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}
