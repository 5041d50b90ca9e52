package testutil

import "encoding/base64"

// PCMPayload encodes 16-bit samples as the base64 little-endian PCM payload
// the remote API returns.
func PCMPayload(samples []int16) string {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		raw[i*2] = byte(s)
		raw[i*2+1] = byte(uint16(s) >> 8)
	}

	return base64.StdEncoding.EncodeToString(raw)
}
