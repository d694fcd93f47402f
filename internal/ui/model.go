// ABOUTME: Bubbletea model for the sanctuary screen
// ABOUTME: Defines soundscape selection, volume, focus timer and breathing state
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stillwater-audio/stillwater-go/internal/session"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

const (
	tickInterval = 100 * time.Millisecond
	volumeStep   = 5
)

// Controller is the audio engine as seen by the UI
type Controller interface {
	Play(preset string)
	Stop()
	SetVolume(level float64)
	Status() soundscape.Status
}

// Model represents the TUI state
type Model struct {
	ctrl    Controller
	presets []soundscape.Preset

	// Soundscape
	selected    int
	audioActive bool
	volume      int // percent
	enabled     bool

	// Session
	timer  *session.FocusTimer
	breath *session.Breathing

	lastTick time.Time
	quitting bool

	// Dimensions
	width  int
	height int
}

type tickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.tick(time.Time(msg))
		return m, tickEvery()
	}

	return m, nil
}

// tick advances the session clocks and picks up changes made elsewhere, such
// as by a remote client
func (m *Model) tick(now time.Time) {
	dt := tickInterval
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now

	wasRunning := m.timer.Active()
	m.timer.Advance(dt)
	if wasRunning && !m.timer.Active() && m.timer.Remaining() == 0 {
		m.audioActive = false
	}

	m.breath.Advance(dt)
	m.applyStatus(m.ctrl.Status())
}

// applyStatus mirrors engine state into the model
func (m *Model) applyStatus(st soundscape.Status) {
	m.enabled = st.Enabled
	if !st.Enabled {
		return
	}

	m.audioActive = st.Mode != soundscape.ModeIdle
	m.volume = int(math.Round(st.Volume * 100))
	for i, p := range m.presets {
		if p.Name == st.Preset {
			m.selected = i
		}
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.ctrl.Stop()
		m.audioActive = false
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.selectPreset(int(key[0] - '1'))
	case "left", "h":
		m.selectPreset((m.selected - 1 + len(m.presets)) % len(m.presets))
	case "right", "l":
		m.selectPreset((m.selected + 1) % len(m.presets))
	case " ", "space":
		m.toggleAudio()
	case "up":
		m.changeVolume(volumeStep)
	case "down":
		m.changeVolume(-volumeStep)
	case "t":
		m.timer.Toggle()
	case "r":
		m.timer.Reset()
	case "b":
		m.breath.Toggle()
	}

	return m, nil
}

// selectPreset switches soundscape, immediately if audio is playing
func (m *Model) selectPreset(i int) {
	if i < 0 || i >= len(m.presets) || i == m.selected {
		return
	}
	m.selected = i
	if m.audioActive {
		m.ctrl.Play(m.presets[i].Name)
	}
}

func (m *Model) toggleAudio() {
	if m.audioActive {
		m.ctrl.Stop()
		m.audioActive = false
		return
	}
	m.ctrl.Play(m.presets[m.selected].Name)
	m.audioActive = true
}

func (m *Model) changeVolume(delta int) {
	v := m.volume + delta
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	if v == m.volume {
		return
	}
	m.volume = v
	m.ctrl.SetVolume(float64(v) / 100)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")).MarginBottom(1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	breathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Leaving the sanctuary...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stillwater Sanctuary"))
	b.WriteString("\n\n")

	b.WriteString(m.renderSoundscapes())
	b.WriteString("\n")
	b.WriteString(m.renderAudio())
	b.WriteString("\n")
	b.WriteString(m.renderTimer())
	b.WriteString("\n")
	b.WriteString(m.renderBreathing())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1-4/←→:Soundscape  space:Play/Stop  ↑/↓:Volume  t:Timer  r:Reset  b:Breathe  q:Quit"))

	return b.String()
}

func (m Model) renderSoundscapes() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Soundscapes"))
	b.WriteString("\n")

	for i, p := range m.presets {
		line := fmt.Sprintf("  %d. %-16s %s", i+1, p.Title, p.Describe())
		if i == m.selected {
			b.WriteString(selectedStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(valueStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAudio() string {
	state := "Stopped"
	if m.audioActive {
		state = "Playing " + m.presets[m.selected].Title
	}
	if !m.enabled {
		state = "Audio unavailable"
	}

	return fmt.Sprintf("%s %s\n%s [%s] %d%%\n",
		headerStyle.Render("Audio: "), valueStyle.Render(state),
		headerStyle.Render("Volume:"), renderBar(m.volume, 100, 20), m.volume)
}

func (m Model) renderTimer() string {
	state := "paused"
	if m.timer.Active() {
		state = "focusing"
	}
	left := int(math.Round(m.timer.Fraction() * 100))

	return fmt.Sprintf("%s %s (%s)\n        [%s]\n",
		headerStyle.Render("Focus: "), valueStyle.Render(m.timer.Format()), state,
		renderBar(left, 100, 20))
}

func (m Model) renderBreathing() string {
	if !m.breath.Running() {
		return fmt.Sprintf("%s %s\n", headerStyle.Render("Breath:"), valueStyle.Render("Paused"))
	}

	// Circle width follows the guide's scale
	width := int(math.Round(m.breath.Scale() * 10))
	circle := strings.Repeat("●", width)
	if m.breath.Opacity() < 0.5 {
		circle = strings.Repeat("○", width)
	}

	return fmt.Sprintf("%s %s %ds\n        %s\n",
		headerStyle.Render("Breath:"), breathStyle.Render(m.breath.Label()),
		m.breath.SecondsLeft(), breathStyle.Render(circle))
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
