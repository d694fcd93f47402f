// ABOUTME: Focus session state for the sanctuary screen
// ABOUTME: Pomodoro-style countdown and 4-7-8 breathing guide
// Package session keeps the timing state behind the sanctuary screen.
// Both types are advanced explicitly by the caller, usually from a UI tick,
// so they never start goroutines of their own.
package session
