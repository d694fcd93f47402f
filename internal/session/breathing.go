// ABOUTME: 4-7-8 breathing guide
// ABOUTME: Cycles inhale, hold and exhale and exposes animation values per phase
package session

import (
	"math"
	"time"
)

// Phase is a step of the breathing cycle
type Phase int

const (
	Paused Phase = iota
	Inhale
	Hold
	Exhale
)

// Phase lengths
const (
	InhaleDuration = 4 * time.Second
	HoldDuration   = 7 * time.Second
	ExhaleDuration = 8 * time.Second
)

func (p Phase) String() string {
	switch p {
	case Inhale:
		return "inhale"
	case Hold:
		return "hold"
	case Exhale:
		return "exhale"
	default:
		return "paused"
	}
}

// Label is the prompt shown to the user
func (p Phase) Label() string {
	switch p {
	case Inhale:
		return "Breathe In"
	case Hold:
		return "Hold"
	case Exhale:
		return "Breathe Out"
	default:
		return "Paused"
	}
}

// Duration returns the phase length, zero while paused
func (p Phase) Duration() time.Duration {
	switch p {
	case Inhale:
		return InhaleDuration
	case Hold:
		return HoldDuration
	case Exhale:
		return ExhaleDuration
	default:
		return 0
	}
}

func (p Phase) next() Phase {
	switch p {
	case Inhale:
		return Hold
	case Hold:
		return Exhale
	default:
		return Inhale
	}
}

// Breathing walks the 4-7-8 cycle. Not safe for concurrent use.
type Breathing struct {
	phase   Phase
	elapsed time.Duration
}

// NewBreathing creates a paused guide
func NewBreathing() *Breathing {
	return &Breathing{}
}

// Toggle starts the cycle at inhale, or pauses and resets it
func (b *Breathing) Toggle() bool {
	if b.phase == Paused {
		b.phase = Inhale
	} else {
		b.phase = Paused
	}
	b.elapsed = 0
	return b.phase != Paused
}

// Running reports whether the guide is cycling
func (b *Breathing) Running() bool {
	return b.phase != Paused
}

// Phase returns the current phase
func (b *Breathing) Phase() Phase {
	return b.phase
}

// Label returns the prompt for the current phase
func (b *Breathing) Label() string {
	return b.phase.Label()
}

// Advance moves the cycle forward by dt, crossing as many phases as needed
func (b *Breathing) Advance(dt time.Duration) {
	if b.phase == Paused || dt <= 0 {
		return
	}

	b.elapsed += dt
	for b.elapsed >= b.phase.Duration() {
		b.elapsed -= b.phase.Duration()
		b.phase = b.phase.next()
	}
}

// Progress returns how far through the current phase we are, 0..1
func (b *Breathing) Progress() float64 {
	d := b.phase.Duration()
	if d == 0 {
		return 0
	}
	return math.Min(float64(b.elapsed)/float64(d), 1)
}

// SecondsLeft returns the whole seconds remaining in the phase, rounded up
func (b *Breathing) SecondsLeft() int {
	left := b.phase.Duration() - b.elapsed
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Scale is the size of the breathing circle: 1 to 1.3 on inhale, held, then
// back to 1 on exhale
func (b *Breathing) Scale() float64 {
	return b.lerp(1, 1.3)
}

// Opacity is the glow of the breathing circle, following the same shape as
// Scale between 0.2 and 0.8
func (b *Breathing) Opacity() float64 {
	return b.lerp(0.2, 0.8)
}

func (b *Breathing) lerp(low, high float64) float64 {
	p := b.Progress()
	switch b.phase {
	case Inhale:
		return low + (high-low)*p
	case Hold:
		return high
	case Exhale:
		return high - (high-low)*p
	default:
		return low
	}
}
