// Package player owns audio output. A Controller holds at most one active
// playback stream: starting a new stream always preempts the old one, so
// two streams never audibly overlap.
package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/website-designer-freelancer-in/speechify/internal/audio"
)

// ErrPlayback is returned when the output device or stream cannot be set up.
var ErrPlayback = errors.New("playback failed")

// State is the controller's playback state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Stream is an active playback handle. Stop is idempotent; stopping an
// already-finished stream must not fail.
type Stream interface {
	Stop()
}

// Device opens playback streams on an output device. Start begins playing
// samples immediately and calls done exactly once if the stream drains to
// its natural end. A stopped stream never calls done. Implementations must
// invoke done from outside Start, never synchronously within it.
type Device interface {
	Start(samples []int16, done func()) (Stream, error)
	Close() error
}

// Controller is the sole owner of the output device and the only component
// that creates or destroys playback streams. The device is created lazily on
// first play and reused; it is expensive to recreate.
type Controller struct {
	openDevice func() (Device, error)

	mu     sync.Mutex
	device Device
	active Stream
	gen    uint64
}

// NewController builds a controller that opens its device with openDevice
// on first use.
func NewController(openDevice func() (Device, error)) *Controller {
	return &Controller{openDevice: openDevice}
}

// Play decodes a base64 PCM payload and starts playing it, preempting any
// stream already active. The returned channel closes when the new stream
// completes naturally; it never closes if the stream is preempted or
// stopped.
func (c *Controller) Play(payload string) (<-chan struct{}, error) {
	samples, err := audio.DecodeSamples(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	return c.PlaySamples(samples)
}

// PlaySamples is Play for already-decoded samples.
func (c *Controller) PlaySamples(samples []int16) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Stop()
		c.active = nil
	}

	if c.device == nil {
		dev, err := c.openDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: open device: %v", ErrPlayback, err)
		}
		c.device = dev
	}

	c.gen++
	gen := c.gen
	done := make(chan struct{})

	stream, err := c.device.Start(samples, func() {
		c.finish(gen)
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlayback, err)
	}
	c.active = stream

	return done, nil
}

// finish transitions to Idle when the stream of generation gen completes.
// A later Play has already replaced the handle, in which case this is a
// stale completion and ignored.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen == gen {
		c.active = nil
	}
}

// Stop halts the active stream, if any. Safe to call while idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Stop()
		c.active = nil
	}
}

// State reports whether a stream is currently active.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return Playing
	}
	return Idle
}

// Close stops playback and releases the output device.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Stop()
		c.active = nil
	}
	if c.device == nil {
		return nil
	}

	err := c.device.Close()
	c.device = nil
	return err
}
