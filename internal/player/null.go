package player

import "sync"

// NullDevice discards audio, completing every stream immediately. Used when
// playback is disabled (headless servers, tests).
type NullDevice struct{}

// OpenNull returns a NullDevice.
func OpenNull() (Device, error) {
	return &NullDevice{}, nil
}

func (*NullDevice) Start(_ []int16, done func()) (Stream, error) {
	s := &nullStream{}
	go func() {
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped {
			done()
		}
	}()

	return s, nil
}

func (*NullDevice) Close() error { return nil }

type nullStream struct {
	mu      sync.Mutex
	stopped bool
}

func (s *nullStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}
