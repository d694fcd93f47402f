// ABOUTME: Procedural ambient audio engine
// ABOUTME: Owns the audio graph: noise beds, binaural tones and one master gain
package soundscape

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/stillwater-audio/stillwater-go/pkg/audio"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/decode"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/output"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

const (
	// Binaural defaults
	DefaultBaseHz = 200.0
	DefaultBeatHz = 5.0

	// VolumeTimeConstant is the master gain smoothing, in seconds
	VolumeTimeConstant = 0.1

	// Bed low-pass cutoffs
	BrightCutoffHz = 1000.0
	DarkCutoffHz   = 400.0
)

// Mode is the kind of source set currently playing
type Mode int

const (
	ModeIdle Mode = iota
	ModeNoise
	ModeBinaural
	ModeLoop
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeNoise:
		return "noise"
	case ModeBinaural:
		return "binaural"
	case ModeLoop:
		return "loop"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config holds engine configuration
type Config struct {
	// Backend is the audio context. Nil means the host has no audio and
	// every operation silently does nothing.
	Backend output.Backend

	// Rand seeds noise generation (default: time-seeded)
	Rand *rand.Rand

	// LoadLoop decodes file presets (default: decode.LoadLoop)
	LoadLoop func(path string, sampleRate int) (*synth.Buffer, error)

	// Debug enables per-operation logging
	Debug bool
}

// Status describes the engine state
type Status struct {
	Enabled bool
	Mode    Mode
	Preset  string
	Volume  float64 // target master gain
	Sources int
}

// Engine synthesizes ambient audio into a single backend. All sources feed
// one persistent master gain; play calls replace the whole source set.
type Engine struct {
	config  Config
	backend output.Backend
	enabled bool

	// ctrlMu serializes control operations (and guards rng)
	ctrlMu sync.Mutex
	rng    *rand.Rand

	// mu guards the graph, which the backend renders from its own goroutine
	mu     sync.Mutex
	master *synth.Param
	voices []voice
	mode   Mode
	preset string
	volume float64
}

// New creates an engine and attaches it to config.Backend. If the backend is
// missing or refuses the attachment, the engine is built disabled.
func New(config Config) *Engine {
	if config.Rand == nil {
		config.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if config.LoadLoop == nil {
		config.LoadLoop = decode.LoadLoop
	}

	e := &Engine{
		config: config,
		rng:    config.Rand,
		master: synth.NewParam(1),
		volume: 1,
	}

	if config.Backend == nil {
		log.Printf("Audio engine: no audio backend, running silent")
		return e
	}

	if err := config.Backend.Attach(e); err != nil {
		log.Printf("Audio engine: backend unavailable, running silent: %v", err)
		return e
	}

	e.backend = config.Backend
	e.enabled = true

	log.Printf("Audio engine ready: %dHz", e.backend.SampleRate())

	return e
}

// Enabled reports whether the engine has a working backend
func (e *Engine) Enabled() bool {
	return e.enabled
}

// Play dispatches a preset by name. "file:<path>" plays a decoded loop.
// A suspended backend is resumed first. Unknown names are logged and ignored.
func (e *Engine) Play(name string) {
	if !e.enabled {
		return
	}

	if e.backend.State() == output.StateSuspended {
		if err := e.backend.Resume(); err != nil {
			log.Printf("Audio engine: failed to resume backend: %v", err)
		}
	}

	if strings.HasPrefix(name, FilePrefix) {
		e.PlayLoop(strings.TrimPrefix(name, FilePrefix))
		return
	}

	p, ok := LookupPreset(name)
	if !ok {
		log.Printf("Audio engine: unknown preset %q, ignoring", name)
		return
	}

	e.ctrlMu.Lock()
	defer e.ctrlMu.Unlock()

	switch p.Mode {
	case ModeBinaural:
		e.startBinaural(p.BaseHz, p.BeatHz, p.Name)
	default:
		e.startNoise(p.Noise, p.Name)
	}
}

// PlayNoiseBed replaces any playback with a looping noise bed of kind
func (e *Engine) PlayNoiseBed(kind synth.NoiseKind) {
	if !e.enabled {
		return
	}

	e.ctrlMu.Lock()
	defer e.ctrlMu.Unlock()

	e.startNoise(kind, "")
}

// PlayBinauralBeat replaces any playback with two sine tones, base hard left
// and base+beat hard right. Zero arguments take the defaults (200 Hz, 5 Hz).
func (e *Engine) PlayBinauralBeat(baseHz, beatHz float64) {
	if !e.enabled {
		return
	}

	e.ctrlMu.Lock()
	defer e.ctrlMu.Unlock()

	e.startBinaural(baseHz, beatHz, "")
}

// PlayLoop replaces any playback with a decoded audio file, looped through the
// bright low-pass. If the file cannot be loaded, current playback continues.
func (e *Engine) PlayLoop(path string) {
	if !e.enabled {
		return
	}

	e.ctrlMu.Lock()
	defer e.ctrlMu.Unlock()

	buf, err := e.config.LoadLoop(path, e.backend.SampleRate())
	if err != nil {
		log.Printf("Audio engine: cannot play loop %s: %v", path, err)
		return
	}

	v := newBedVoice(buf, BrightCutoffHz, e.backend.SampleRate())
	v.fromFile = true
	e.replace(ModeLoop, FilePrefix+path, v)
}

// SetVolume ramps the master gain toward level. The range is not checked.
func (e *Engine) SetVolume(level float64) {
	if !e.enabled {
		return
	}

	e.mu.Lock()
	e.master.SetTargetAtTime(level, e.backend.CurrentTime(), VolumeTimeConstant)
	e.volume = level
	e.mu.Unlock()

	if e.config.Debug {
		log.Printf("[DEBUG] Master volume -> %.2f", level)
	}
}

// Stop tears down every active source. The master gain is kept.
func (e *Engine) Stop() {
	if !e.enabled {
		return
	}

	e.mu.Lock()
	stopped := len(e.voices)
	e.stopLocked()
	e.mu.Unlock()

	if stopped > 0 {
		log.Printf("Audio engine: stopped %d sources", stopped)
	}
}

// Status returns a snapshot of the engine state
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		Enabled: e.enabled,
		Mode:    e.mode,
		Preset:  e.preset,
		Volume:  e.volume,
		Sources: len(e.voices),
	}
}

// Sources describes the active generators
func (e *Engine) Sources() []Source {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Source, 0, len(e.voices))
	for _, v := range e.voices {
		out = append(out, v.source())
	}
	return out
}

// Gain returns the master gain at the backend's current time
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return e.master.ValueAt(0)
	}
	return e.master.ValueAt(e.backend.CurrentTime())
}

// Render mixes all sources through the master gain. Called by the backend.
func (e *Engine) Render(dst []float32, t0 float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rate := float64(e.backend.SampleRate())
	frames := len(dst) / output.Channels

	for i := 0; i < frames; i++ {
		var l, r float64
		for _, v := range e.voices {
			vl, vr := v.next()
			l += vl
			r += vr
		}

		g := e.master.ValueAt(t0 + float64(i)/rate)
		dst[i*output.Channels] = audio.Clamp(float32(l * g))
		dst[i*output.Channels+1] = audio.Clamp(float32(r * g))
	}
}

func (e *Engine) startNoise(kind synth.NoiseKind, preset string) {
	rate := e.backend.SampleRate()
	buf := synth.GenerateNoise(kind, rate, e.rng)

	v := newBedVoice(buf, CutoffFor(kind), rate)
	v.noise = kind
	e.replace(ModeNoise, preset, v)
}

func (e *Engine) startBinaural(baseHz, beatHz float64, preset string) {
	if baseHz <= 0 {
		baseHz = DefaultBaseHz
	}
	if beatHz == 0 {
		beatHz = DefaultBeatHz
	}

	rate := e.backend.SampleRate()
	left := newToneVoice(baseHz, -1, rate)
	right := newToneVoice(baseHz+beatHz, 1, rate)
	e.replace(ModeBinaural, preset, left, right)
}

// replace swaps the source set in one critical section so the renderer never
// sees two kinds at once
func (e *Engine) replace(mode Mode, preset string, voices ...voice) {
	e.mu.Lock()
	e.stopLocked()
	for _, v := range voices {
		v.start()
	}
	e.voices = voices
	e.mode = mode
	e.preset = preset
	e.mu.Unlock()

	label := preset
	if label == "" {
		label = mode.String()
	}
	log.Printf("Audio engine: playing %s (%d sources)", label, len(voices))
}

func (e *Engine) stopLocked() {
	for _, v := range e.voices {
		v.stop()
	}
	e.voices = nil
	e.mode = ModeIdle
	e.preset = ""
}
