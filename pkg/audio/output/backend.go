// ABOUTME: Audio backend interface definition
// ABOUTME: The host capability the engine renders into (device, offline, or none)
package output

import (
	"errors"
	"fmt"
)

// ErrNoDevice is returned when the host cannot provide an audio device
var ErrNoDevice = errors.New("no audio device available")

// State is the lifecycle state of a backend's audio clock
type State int32

const (
	// StateSuspended means the clock is stopped and nothing is pulled
	StateSuspended State = iota
	// StateRunning means the backend is pulling frames from its renderer
	StateRunning
	// StateClosed means the backend has been torn down
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Renderer produces interleaved stereo float32 frames on demand.
// t0 is the backend clock time, in seconds, of the first frame in dst.
type Renderer interface {
	Render(dst []float32, t0 float64)
}

// Backend is an audio processing context: a clock plus a sink that pulls
// frames from a single Renderer. CurrentTime and State must not block, since
// a renderer may call them while the backend is inside Render.
type Backend interface {
	// SampleRate returns the output sample rate in Hz
	SampleRate() int

	// CurrentTime returns seconds of audio rendered so far
	CurrentTime() float64

	// State returns the clock state
	State() State

	// Resume starts (or restarts) the clock
	Resume() error

	// Attach connects the renderer that will supply all output
	Attach(r Renderer) error

	// Close releases device resources
	Close() error
}

// Channels is the channel count every backend renders
const Channels = 2
