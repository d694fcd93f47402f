// ABOUTME: Sine oscillator with a phase accumulator
// ABOUTME: Generates continuous tones for binaural beats
package synth

import "math"

// Oscillator produces a sine wave at a fixed frequency
type Oscillator struct {
	frequency  float64
	sampleRate float64
	phase      float64 // cycles, in [0, 1)
	started    bool
	stopped    bool
}

// NewOscillator creates a sine oscillator; it is silent until Start
func NewOscillator(frequency float64, sampleRate int) *Oscillator {
	return &Oscillator{
		frequency:  frequency,
		sampleRate: float64(sampleRate),
	}
}

// Frequency returns the oscillator frequency in Hz
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Start begins oscillation. A stopped oscillator cannot be restarted.
func (o *Oscillator) Start() {
	if o.stopped {
		return
	}
	o.started = true
}

// Stop ends oscillation permanently
func (o *Oscillator) Stop() {
	o.stopped = true
}

// Playing reports whether the oscillator is producing samples
func (o *Oscillator) Playing() bool {
	return o.started && !o.stopped
}

// Next returns the next sample in [-1, 1]
func (o *Oscillator) Next() float64 {
	if !o.Playing() || o.sampleRate <= 0 {
		return 0
	}

	v := math.Sin(2 * math.Pi * o.phase)

	o.phase += o.frequency / o.sampleRate
	o.phase -= math.Floor(o.phase)

	return v
}
