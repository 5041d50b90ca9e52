package audio

// Hook transforms a sample buffer in the float pipeline.
type Hook func(samples []float32) []float32

// ApplyHooks runs hooks left to right over samples.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// PeakNormalize scales samples so the peak amplitude reaches 1.0.
// Silence is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		return samples
	}

	scale := 1.0 / peak
	for i := range samples {
		samples[i] *= scale
	}

	return samples
}

// FadeIn applies a linear fade-in ramp over the given duration in milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := rampSamples(len(samples), sampleRate, ms)
	for i := range n {
		samples[i] *= float32(i) / float32(n)
	}

	return samples
}

// FadeOut applies a linear fade-out ramp over the given duration in milliseconds.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := rampSamples(len(samples), sampleRate, ms)
	for i := range n {
		idx := len(samples) - 1 - i
		samples[idx] *= float32(i) / float32(n)
	}

	return samples
}

func rampSamples(total, sampleRate int, ms float64) int {
	if ms <= 0 || sampleRate <= 0 {
		return 0
	}
	n := int(float64(sampleRate) * ms / 1000.0)
	if n > total {
		n = total
	}

	return n
}
