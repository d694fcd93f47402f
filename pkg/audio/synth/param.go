// ABOUTME: Automatable parameter with exponential target approach
// ABOUTME: Models setTargetAtTime so gain changes ramp instead of clicking
package synth

import "math"

// Param is a scalar whose value may approach a target over time.
// Times are seconds on the owning backend's clock.
type Param struct {
	base   float64 // value at start
	target float64
	start  float64
	tau    float64
	ramp   bool
}

// NewParam creates a parameter fixed at value
func NewParam(value float64) *Param {
	return &Param{base: value, target: value}
}

// SetValue jumps to value immediately and cancels any ramp
func (p *Param) SetValue(value float64) {
	p.base = value
	p.target = value
	p.ramp = false
}

// SetTargetAtTime starts an exponential approach toward target at time start,
// replacing whatever automation was in progress. The ramp begins from the
// value the previous automation had reached at start.
func (p *Param) SetTargetAtTime(target, start, timeConstant float64) {
	current := p.ValueAt(start)

	if timeConstant <= 0 {
		p.SetValue(target)
		return
	}

	p.base = current
	p.target = target
	p.start = start
	p.tau = timeConstant
	p.ramp = true
}

// Target returns the value the parameter is heading toward
func (p *Param) Target() float64 {
	return p.target
}

// ValueAt returns the parameter value at time t
func (p *Param) ValueAt(t float64) float64 {
	if !p.ramp || t <= p.start {
		return p.base
	}
	return p.target + (p.base-p.target)*math.Exp(-(t-p.start)/p.tau)
}
