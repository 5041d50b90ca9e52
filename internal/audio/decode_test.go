package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeFloatRoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 0.999, -1.0}

	data, err := EncodeWAVFloat(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d samples, want %d", len(out), len(in))
	}

	// 16-bit quantization loses at most one step in either direction.
	const tol = 2.0 / 32768.0
	for i := range in {
		if math.Abs(float64(out[i]-in[i])) > tol {
			t.Errorf("sample %d: got %f, want %f ± %f", i, out[i], in[i], tol)
		}
	}
}

func TestDecodeWAVRejectsWrongFormat(t *testing.T) {
	pcm := make([]byte, 96)
	data := EncodeWAV(pcm, 48000)

	_, err := DecodeWAV(data)
	if !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("err = %v, want ErrFormatMismatch", err)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not a wav file at all, just text")} {
		if _, err := DecodeWAV(data); err == nil {
			t.Errorf("decoded %d junk bytes without error", len(data))
		}
	}
}

func TestEncodeWAVFloatHeader(t *testing.T) {
	data, err := EncodeWAVFloat(make([]float32, 240))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad container framing: % x", data[:12])
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != SampleRate {
		t.Errorf("sample rate %d, want %d", rate, SampleRate)
	}
	if byteRate := binary.LittleEndian.Uint32(data[28:32]); byteRate != SampleRate*2 {
		t.Errorf("byte rate %d, want %d", byteRate, SampleRate*2)
	}
}
