//go:build headless

// ABOUTME: Oto stub for headless builds
// ABOUTME: Keeps the package building without a system audio library
package output

import "fmt"

// Oto is unavailable in headless builds
type Oto struct{}

// NewOto always fails in headless builds
func NewOto(sampleRate int) (*Oto, error) {
	return nil, fmt.Errorf("%w: device output not enabled (build without -tags headless)", ErrNoDevice)
}

// SampleRate reports 0; there is no device
func (o *Oto) SampleRate() int { return 0 }

// CurrentTime reports 0; the clock never runs
func (o *Oto) CurrentTime() float64 { return 0 }

// State is always StateClosed
func (o *Oto) State() State { return StateClosed }

// Resume fails with ErrNoDevice
func (o *Oto) Resume() error { return ErrNoDevice }

// Suspend fails with ErrNoDevice
func (o *Oto) Suspend() error { return ErrNoDevice }

// Attach fails with ErrNoDevice, which leaves the engine disabled
func (o *Oto) Attach(r Renderer) error { return ErrNoDevice }

// Close is a no-op
func (o *Oto) Close() error { return nil }
