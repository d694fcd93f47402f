// ABOUTME: Second-order low-pass filter
// ABOUTME: RBJ cookbook biquad with Web Audio's Q-in-decibels convention
package synth

import "math"

// DefaultQ is the resonance in dB a low-pass uses unless told otherwise
const DefaultQ = 1.0

// Biquad is a direct form I low-pass filter
type Biquad struct {
	cutoff float64
	b0, b1 float64
	b2, a1 float64
	a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewLowPass creates a low-pass filter with the given cutoff and Q (dB)
func NewLowPass(cutoff float64, q float64, sampleRate int) *Biquad {
	f := &Biquad{cutoff: cutoff}

	nyquist := float64(sampleRate) / 2
	if cutoff >= nyquist || sampleRate <= 0 {
		// Fully open: pass input through unchanged
		f.b0 = 1
		return f
	}

	w0 := 2 * math.Pi * cutoff / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, q/20))

	a0 := 1 + alpha
	f.b0 = (1 - cosw) / 2 / a0
	f.b1 = (1 - cosw) / a0
	f.b2 = (1 - cosw) / 2 / a0
	f.a1 = -2 * cosw / a0
	f.a2 = (1 - alpha) / a0

	return f
}

// Cutoff returns the cutoff frequency in Hz
func (f *Biquad) Cutoff() float64 {
	return f.cutoff
}

// Process filters one sample
func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2

	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = y

	return y
}

// Reset clears the filter history
func (f *Biquad) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}
