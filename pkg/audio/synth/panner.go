// ABOUTME: Equal-power stereo panner for mono inputs
// ABOUTME: Places a mono signal between hard left (-1) and hard right (+1)
package synth

import "math"

// Panner splits a mono signal into left/right with equal-power gains
type Panner struct {
	pan         float64
	left, right float64
}

// NewPanner creates a panner; pan is clamped to [-1, 1]
func NewPanner(pan float64) *Panner {
	if pan < -1 {
		pan = -1
	}
	if pan > 1 {
		pan = 1
	}

	x := (pan + 1) / 2
	return &Panner{
		pan:   pan,
		left:  math.Cos(x * math.Pi / 2),
		right: math.Sin(x * math.Pi / 2),
	}
}

// Pan returns the pan position
func (p *Panner) Pan() float64 {
	return p.pan
}

// Process returns the left and right outputs for a mono input
func (p *Panner) Process(x float64) (float64, float64) {
	return x * p.left, x * p.right
}
