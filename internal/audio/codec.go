package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// Expected PCM format for synthesis payloads.
const (
	SampleRate    = 24000
	Channels      = 1
	BitDepth      = 16
	bytesPerFrame = Channels * BitDepth / 8
)

// ErrMalformedPayload is returned when a payload cannot be decoded into
// whole 16-bit samples.
var ErrMalformedPayload = errors.New("malformed audio payload")

// DecodeSamples decodes a base64 payload into signed 16-bit little-endian
// PCM samples. It fails with ErrMalformedPayload if the base64 is invalid
// or the decoded byte length is odd.
func DecodeSamples(payload string) ([]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return SamplesFromPCM(raw)
}

// SamplesFromPCM reinterprets raw little-endian bytes as 16-bit samples.
func SamplesFromPCM(raw []byte) ([]int16, error) {
	if len(raw)%bytesPerFrame != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not sample-aligned", ErrMalformedPayload, len(raw))
	}

	samples := make([]int16, len(raw)/bytesPerFrame)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return samples, nil
}

// PCMBytes is the inverse of SamplesFromPCM.
func PCMBytes(samples []int16) []byte {
	raw := make([]byte, len(samples)*bytesPerFrame)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}

	return raw
}

// ToFloat32 maps 16-bit samples to floating-point amplitudes in [-1, 1)
// by scaling with 1/32768. Input range bounds the output, so no clipping
// guard is needed.
func ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}

	return out
}

// FromFloat32 converts floating-point amplitudes back to 16-bit samples,
// clamping to [-1, 1] first.
func FromFloat32(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int16(s * 32767)
	}

	return out
}
