// ABOUTME: Source chains inside the engine's audio graph
// ABOUTME: A bed is buffer -> low-pass; a tone is oscillator -> stereo panner
package soundscape

import "github.com/stillwater-audio/stillwater-go/pkg/audio/synth"

// SourceKind identifies a generator node type
type SourceKind int

const (
	SourceBuffer SourceKind = iota
	SourceOscillator
)

func (k SourceKind) String() string {
	if k == SourceOscillator {
		return "oscillator"
	}
	return "buffer"
}

// Source describes one active generator and the nodes behind it
type Source struct {
	Kind      SourceKind
	Noise     synth.NoiseKind // buffer sources generated from noise
	FromFile  bool            // buffer sources decoded from a file
	Frequency float64         // oscillators, Hz
	Pan       float64         // oscillators, -1 (left) .. 1 (right)
	Cutoff    float64         // buffer sources, low-pass Hz
}

// voice is one generator chain feeding the master gain
type voice interface {
	start()
	stop()
	next() (left, right float64)
	source() Source
}

type bedVoice struct {
	src      *synth.BufferSource
	filter   *synth.Biquad
	noise    synth.NoiseKind
	fromFile bool
}

func newBedVoice(buf *synth.Buffer, cutoff float64, sampleRate int) *bedVoice {
	return &bedVoice{
		src:    synth.NewBufferSource(buf, true),
		filter: synth.NewLowPass(cutoff, synth.DefaultQ, sampleRate),
	}
}

func (v *bedVoice) start() { v.src.Start() }
func (v *bedVoice) stop()  { v.src.Stop() }

// next upmixes the mono bed to both channels
func (v *bedVoice) next() (float64, float64) {
	y := v.filter.Process(v.src.Next())
	return y, y
}

func (v *bedVoice) source() Source {
	return Source{
		Kind:     SourceBuffer,
		Noise:    v.noise,
		FromFile: v.fromFile,
		Cutoff:   v.filter.Cutoff(),
	}
}

type toneVoice struct {
	osc *synth.Oscillator
	pan *synth.Panner
}

func newToneVoice(frequency, pan float64, sampleRate int) *toneVoice {
	return &toneVoice{
		osc: synth.NewOscillator(frequency, sampleRate),
		pan: synth.NewPanner(pan),
	}
}

func (v *toneVoice) start() { v.osc.Start() }
func (v *toneVoice) stop()  { v.osc.Stop() }

func (v *toneVoice) next() (float64, float64) {
	return v.pan.Process(v.osc.Next())
}

func (v *toneVoice) source() Source {
	return Source{
		Kind:      SourceOscillator,
		Frequency: v.osc.Frequency(),
		Pan:       v.pan.Pan(),
	}
}
