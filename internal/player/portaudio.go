package player

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

// framesPerBuffer is 40ms of audio at 24000 Hz.
const framesPerBuffer = 960

// PortAudioDevice plays through the host's default output device.
type PortAudioDevice struct{}

// OpenPortAudio initializes the PortAudio host API. Callers must Close the
// device to terminate it.
func OpenPortAudio() (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &PortAudioDevice{}, nil
}

func (d *PortAudioDevice) Start(samples []int16, done func()) (Stream, error) {
	out := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, audio.Channels, float64(audio.SampleRate), framesPerBuffer, out)
	if err != nil {
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start output stream: %w", err)
	}

	ps := &portAudioStream{stream: stream, quit: make(chan struct{})}
	go ps.run(samples, out, done)

	return ps, nil
}

func (d *PortAudioDevice) Close() error {
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream *portaudio.Stream
	quit   chan struct{}
	once   sync.Once
}

func (ps *portAudioStream) run(samples, out []int16, done func()) {
	defer func() {
		_ = ps.stream.Stop()
		_ = ps.stream.Close()
	}()

	for off := 0; off < len(samples); off += len(out) {
		select {
		case <-ps.quit:
			return
		default:
		}

		n := copy(out, samples[off:])
		for i := n; i < len(out); i++ {
			out[i] = 0
		}

		if err := ps.stream.Write(); err != nil {
			// Device write failure ends the stream; treat as completion
			// so the controller returns to idle.
			done()
			return
		}
	}

	done()
}

func (ps *portAudioStream) Stop() {
	ps.once.Do(func() { close(ps.quit) })
}
