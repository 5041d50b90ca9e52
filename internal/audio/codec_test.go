package audio

import (
	"encoding/base64"
	"errors"
	"math"
	"testing"
)

func TestDecodeSamples(t *testing.T) {
	t.Run("round-trips even-length PCM", func(t *testing.T) {
		want := []int16{0, 1, -1, 16384, -16384, 32767, -32768}
		payload := base64.StdEncoding.EncodeToString(PCMBytes(want))

		got, err := DecodeSamples(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d samples, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("decodes empty payload to zero samples", func(t *testing.T) {
		got, err := DecodeSamples("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d samples, want 0", len(got))
		}
	})

	t.Run("rejects odd byte length", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
		_, err := DecodeSamples(payload)
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("got %v, want ErrMalformedPayload", err)
		}
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := DecodeSamples("not base64!!!")
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("got %v, want ErrMalformedPayload", err)
		}
	})
}

func TestToFloat32(t *testing.T) {
	tests := []struct {
		name   string
		sample int16
		want   float32
	}{
		{"zero", 0, 0},
		{"positive half scale", 16384, 0.5},
		{"negative half scale", -16384, -0.5},
		{"minimum", -32768, -1.0},
		{"near maximum", 32767, 32767.0 / 32768.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToFloat32([]int16{tt.sample})
			if math.Abs(float64(got[0]-tt.want)) > 1e-9 {
				t.Errorf("got %f, want %f", got[0], tt.want)
			}
		})
	}
}

func TestToFloat32Range(t *testing.T) {
	samples := make([]int16, 0, 65536)
	for s := math.MinInt16; s <= math.MaxInt16; s += 255 {
		samples = append(samples, int16(s))
	}

	for i, f := range ToFloat32(samples) {
		if f < -1.0 || f >= 1.0 {
			t.Fatalf("sample %d (%d) maps to %f outside [-1, 1)", i, samples[i], f)
		}
	}
}

func TestFromFloat32Clamps(t *testing.T) {
	got := FromFloat32([]float32{2.0, -2.0, 0.0})
	if got[0] != 32767 {
		t.Errorf("over-range: got %d, want 32767", got[0])
	}
	if got[1] != -32767 {
		t.Errorf("under-range: got %d, want -32767", got[1])
	}
	if got[2] != 0 {
		t.Errorf("zero: got %d, want 0", got[2])
	}
}

func TestPCMBytesRoundTrip(t *testing.T) {
	want := []int16{-32768, -1, 0, 1, 32767}
	got, err := SamplesFromPCM(PCMBytes(want))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
