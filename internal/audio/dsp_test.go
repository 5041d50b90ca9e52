package audio

import (
	"math"
	"testing"
)

func peakOf(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

func TestPeakNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		wantPeak float32
	}{
		{"scales half-amplitude signal to 1.0", []float32{0.0, 0.5, -0.25, 0.5}, 1.0},
		{"scales quiet signal", []float32{0.1, -0.1, 0.05}, 1.0},
		{"already normalized signal unchanged", []float32{0.0, 1.0, -0.5}, 1.0},
		{"silence remains silence", []float32{0.0, 0.0, 0.0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]float32, len(tt.input))
			copy(in, tt.input)

			peak := peakOf(PeakNormalize(in))
			if math.Abs(float64(peak-tt.wantPeak)) > 1e-6 {
				t.Errorf("peak %f, want %f", peak, tt.wantPeak)
			}
		})
	}
}

func TestFadeIn(t *testing.T) {
	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 1.0
	}

	// 1ms at 24000 Hz is 24 samples.
	out := FadeIn(samples, SampleRate, 1)

	if out[0] != 0 {
		t.Errorf("first sample %f, want 0", out[0])
	}
	if out[12] >= 1.0 {
		t.Errorf("mid-ramp sample %f, want < 1.0", out[12])
	}
	if out[50] != 1.0 {
		t.Errorf("post-ramp sample %f, want 1.0", out[50])
	}
}

func TestFadeOut(t *testing.T) {
	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 1.0
	}

	out := FadeOut(samples, SampleRate, 1)

	if out[99] != 0 {
		t.Errorf("last sample %f, want 0", out[99])
	}
	if out[50] != 1.0 {
		t.Errorf("pre-ramp sample %f, want 1.0", out[50])
	}
}

func TestFadeRampLongerThanBuffer(t *testing.T) {
	samples := []float32{1.0, 1.0}
	out := FadeOut(samples, SampleRate, 10_000)
	if len(out) != 2 {
		t.Fatalf("length changed to %d", len(out))
	}
}

func TestApplyHooks(t *testing.T) {
	double := func(s []float32) []float32 {
		for i := range s {
			s[i] *= 2
		}
		return s
	}

	out := ApplyHooks([]float32{0.25}, double, double)
	if out[0] != 1.0 {
		t.Errorf("got %f, want 1.0", out[0])
	}
}
