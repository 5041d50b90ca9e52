package audio

import (
	"fmt"
	"io"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// EncodeWAVFloat encodes float32 samples as a WAV byte slice in the studio
// format (24000 Hz, mono, 16-bit PCM). This is the encode path for the float
// pipeline after playback hooks; archived raw PCM goes through EncodeWAV.
func EncodeWAVFloat(samples []float32) ([]byte, error) {
	// wav.NewEncoder needs an io.WriteSeeker to patch chunk sizes on Close.
	var sink sliceWriteSeeker

	enc := wav.NewEncoder(&sink, SampleRate, BitDepth, Channels, 1) // 1 = PCM

	pcmBuf := &goaudio.Float32Buffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: SampleRate, NumChannels: Channels},
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(pcmBuf); err != nil {
		return nil, fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return sink.data, nil
}

// sliceWriteSeeker is an in-memory io.WriteSeeker over a byte slice.
type sliceWriteSeeker struct {
	data []byte
	pos  int64
}

func (s *sliceWriteSeeker) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	copy(s.data[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *sliceWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("seek before start of buffer")
	}
	s.pos = pos
	return pos, nil
}
