// ABOUTME: Named soundscape presets
// ABOUTME: Maps rain/wind/forest/night onto noise beds and binaural beats
package soundscape

import (
	"fmt"
	"strings"

	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

// FilePrefix marks a preset name that is really a path to a loop file
const FilePrefix = "file:"

// Preset is a named soundscape
type Preset struct {
	Name  string
	Title string
	Mode  Mode // ModeNoise or ModeBinaural

	Noise synth.NoiseKind

	BaseHz float64
	BeatHz float64
}

var presets = []Preset{
	{Name: "rain", Title: "Rainfall", Mode: ModeNoise, Noise: synth.Pink},
	{Name: "wind", Title: "Ethereal Wind", Mode: ModeNoise, Noise: synth.Brown},
	// Plain white noise; only the shared low-pass softens it
	{Name: "forest", Title: "Neural Forest", Mode: ModeNoise, Noise: synth.White},
	// Theta range
	{Name: "night", Title: "Binaural Night", Mode: ModeBinaural, BaseHz: 150, BeatHz: 4},
}

// Presets returns the built-in presets in display order
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a built-in preset by name
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Describe summarizes the signal chain a preset builds
func (p Preset) Describe() string {
	if p.Mode == ModeBinaural {
		return fmt.Sprintf("binaural %.0f Hz / %.0f Hz beat", p.BaseHz, p.BeatHz)
	}
	return fmt.Sprintf("%s noise, %.0f Hz low-pass", p.Noise, CutoffFor(p.Noise))
}

// CutoffFor returns the bed low-pass cutoff for a noise kind
func CutoffFor(kind synth.NoiseKind) float64 {
	if kind == synth.Brown {
		return DarkCutoffHz
	}
	return BrightCutoffHz
}
