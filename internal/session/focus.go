// ABOUTME: Focus countdown timer with pause, reset and expiry callback
// ABOUTME: Each run is tagged with a session ID for the log
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultFocusDuration is one pomodoro
const DefaultFocusDuration = 25 * time.Minute

// FocusTimer counts down a focus session
type FocusTimer struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	active    bool
	sessionID string

	// OnExpire runs once when the countdown reaches zero
	OnExpire func(sessionID string)
}

// NewFocusTimer creates a paused timer. A non-positive duration uses
// DefaultFocusDuration.
func NewFocusTimer(duration time.Duration) *FocusTimer {
	if duration <= 0 {
		duration = DefaultFocusDuration
	}
	return &FocusTimer{
		duration:  duration,
		remaining: duration,
	}
}

// Toggle starts or pauses the countdown. Starting a finished timer does nothing
// until it is reset.
func (f *FocusTimer) Toggle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active {
		f.active = false
		log.Printf("Focus session %s paused at %s", f.sessionID, format(f.remaining))
		return false
	}

	if f.remaining <= 0 {
		return false
	}

	if f.sessionID == "" {
		f.sessionID = uuid.New().String()
		log.Printf("Focus session %s started (%s)", f.sessionID, format(f.remaining))
	}
	f.active = true
	return true
}

// Reset pauses the timer and restores the full duration
func (f *FocusTimer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = false
	f.remaining = f.duration
	f.sessionID = ""
}

// Advance moves an active countdown forward by dt
func (f *FocusTimer) Advance(dt time.Duration) {
	f.mu.Lock()

	if !f.active || dt <= 0 {
		f.mu.Unlock()
		return
	}

	f.remaining -= dt
	if f.remaining > 0 {
		f.mu.Unlock()
		return
	}

	f.remaining = 0
	f.active = false
	id := f.sessionID
	onExpire := f.OnExpire
	f.mu.Unlock()

	log.Printf("Focus session %s complete", id)
	if onExpire != nil {
		onExpire(id)
	}
}

// Active reports whether the countdown is running
func (f *FocusTimer) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Remaining returns the time left
func (f *FocusTimer) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

// Duration returns the full session length
func (f *FocusTimer) Duration() time.Duration {
	return f.duration
}

// Fraction returns the share of the session still left, 1 at the start
func (f *FocusTimer) Fraction() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return float64(f.remaining) / float64(f.duration)
}

// SessionID returns the ID of the current run, empty before the first start
func (f *FocusTimer) SessionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionID
}

// Format renders the time left as m:ss
func (f *FocusTimer) Format() string {
	return format(f.Remaining())
}

func format(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
