// ABOUTME: Offline backend with a manually advanced clock
// ABOUTME: Renders frames on request; used for WAV export and tests
package output

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Offline renders audio only when asked to. Like a browser audio context
// created before any user gesture, it starts suspended.
type Offline struct {
	mu         sync.Mutex
	renderer   Renderer
	sampleRate int
	frames     atomic.Uint64
	state      atomic.Int32
}

// NewOffline creates a suspended offline backend
func NewOffline(sampleRate int) *Offline {
	o := &Offline{sampleRate: sampleRate}
	o.state.Store(int32(StateSuspended))
	return o
}

// SampleRate returns the sample rate in Hz
func (o *Offline) SampleRate() int { return o.sampleRate }

// CurrentTime returns seconds rendered so far
func (o *Offline) CurrentTime() float64 {
	if o.sampleRate <= 0 {
		return 0
	}
	return float64(o.frames.Load()) / float64(o.sampleRate)
}

// State returns the clock state
func (o *Offline) State() State { return State(o.state.Load()) }

// Resume starts the clock
func (o *Offline) Resume() error {
	if o.State() == StateClosed {
		return fmt.Errorf("offline backend closed")
	}
	o.state.Store(int32(StateRunning))
	return nil
}

// Suspend stops the clock
func (o *Offline) Suspend() {
	if o.State() == StateRunning {
		o.state.Store(int32(StateSuspended))
	}
}

// Attach sets the renderer
func (o *Offline) Attach(r Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() == StateClosed {
		return fmt.Errorf("offline backend closed")
	}
	o.renderer = r
	return nil
}

// Render pulls n frames (2n interleaved samples). While suspended it returns
// silence and the clock does not move.
func (o *Offline) Render(n int) []float32 {
	out := make([]float32, n*Channels)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() != StateRunning || o.renderer == nil {
		return out
	}

	o.renderer.Render(out, o.CurrentTime())
	o.frames.Add(uint64(n))
	return out
}

// Close detaches the renderer and stops the clock for good
func (o *Offline) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.renderer = nil
	o.state.Store(int32(StateClosed))
	return nil
}
