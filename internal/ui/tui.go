// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the sanctuary screen
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stillwater-audio/stillwater-go/internal/session"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

// Options configures the sanctuary screen
type Options struct {
	Preset string              // initially selected soundscape
	Timer  *session.FocusTimer // default: 25 minute timer
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller, opts Options) Model {
	if opts.Timer == nil {
		opts.Timer = session.NewFocusTimer(0)
	}

	m := Model{
		ctrl:    ctrl,
		presets: soundscape.Presets(),
		volume:  100,
		timer:   opts.Timer,
		breath:  session.NewBreathing(),
	}

	for i, p := range m.presets {
		if p.Name == opts.Preset {
			m.selected = i
		}
	}

	m.applyStatus(ctrl.Status())
	return m
}

// Run shows the sanctuary screen until the user quits
func Run(ctrl Controller, opts Options) error {
	p := tea.NewProgram(NewModel(ctrl, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
