// Package testutil provides shared assertions for studio tests.
package testutil

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

// wavInfo holds the fmt-chunk fields and data-chunk size of a parsed file.
type wavInfo struct {
	format     uint16
	channels   uint16
	sampleRate uint32
	bitDepth   uint16
	dataBytes  uint32
}

// AssertValidWAV fails the test unless data is a PCM WAV file in the studio
// output format (24 kHz mono 16-bit) containing at least one sample.
func AssertValidWAV(tb testing.TB, data []byte) {
	tb.Helper()

	info, err := parseWAV(data)
	if err != nil {
		tb.Fatalf("WAV: %v", err)
	}

	if info.format != 1 {
		tb.Fatalf("WAV: format tag = %d, want 1 (PCM)", info.format)
	}
	if int(info.channels) != audio.Channels {
		tb.Fatalf("WAV: channels = %d, want %d", info.channels, audio.Channels)
	}
	if int(info.sampleRate) != audio.SampleRate {
		tb.Fatalf("WAV: sample rate = %d, want %d", info.sampleRate, audio.SampleRate)
	}
	if int(info.bitDepth) != audio.BitDepth {
		tb.Fatalf("WAV: bit depth = %d, want %d", info.bitDepth, audio.BitDepth)
	}
	if info.dataBytes == 0 {
		tb.Fatal("WAV: data chunk contains zero samples")
	}
}

// AssertWAVDurationApprox fails the test unless the audio duration falls
// within [minSec, maxSec], computed from the data-chunk sample count.
func AssertWAVDurationApprox(tb testing.TB, data []byte, minSec, maxSec float64) {
	tb.Helper()

	info, err := parseWAV(data)
	if err != nil {
		tb.Fatalf("WAV duration check: %v", err)
	}

	frames := info.dataBytes / uint32(audio.BitDepth/8)
	sec := float64(frames) / float64(audio.SampleRate)
	if sec < minSec || sec > maxSec {
		tb.Fatalf("WAV duration %.3fs out of expected range [%.3fs, %.3fs]", sec, minSec, maxSec)
	}
}

// parseWAV validates the RIFF framing and walks the chunk list, collecting
// the fmt fields and the data-chunk size.
func parseWAV(data []byte) (wavInfo, error) {
	var info wavInfo

	if len(data) < 44 {
		return info, fmt.Errorf("file too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return info, fmt.Errorf("not a RIFF/WAVE file (got %q, %q)", data[0:4], data[8:12])
	}

	sawFmt := false
	sawData := false
	for offset := 12; offset+8 <= len(data); {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return info, fmt.Errorf("fmt chunk truncated (%d bytes)", size)
			}
			info.format = binary.LittleEndian.Uint16(data[body : body+2])
			info.channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			info.sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			info.bitDepth = binary.LittleEndian.Uint16(data[body+14 : body+16])
			sawFmt = true
		case "data":
			info.dataBytes = size
			sawData = true
		}

		offset = body + int(size)
		if size%2 != 0 {
			offset++ // chunks are word-aligned
		}
	}

	if !sawFmt {
		return info, fmt.Errorf("fmt chunk not found")
	}
	if !sawData {
		return info, fmt.Errorf("data chunk not found")
	}
	return info, nil
}
