// Package cache holds previewed audio payloads for the lifetime of a
// session so the same voice/language combination is not synthesized twice.
package cache

import "sync"

// SampleCache maps a (voice, language) pair to the exact base64 audio
// payload returned by the remote API. It is volatile: nothing is persisted
// and nothing expires before the session ends.
type SampleCache struct {
	mu      sync.RWMutex
	samples map[string]string
}

// New returns an empty SampleCache.
func New() *SampleCache {
	return &SampleCache{samples: make(map[string]string)}
}

// Get returns the cached payload for the pair, if present.
func (c *SampleCache) Get(voiceID, langCode string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload, ok := c.samples[key(voiceID, langCode)]
	return payload, ok
}

// Put stores the payload for the pair, replacing any previous value.
func (c *SampleCache) Put(voiceID, langCode, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.samples[key(voiceID, langCode)] = payload
}

// Len reports the number of cached pairs.
func (c *SampleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.samples)
}

func key(voiceID, langCode string) string {
	return voiceID + "|" + langCode
}
