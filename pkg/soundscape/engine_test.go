// ABOUTME: Tests for the soundscape engine
// ABOUTME: Renders through the offline backend and inspects the graph
package soundscape

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/stillwater-audio/stillwater-go/pkg/audio/output"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

const testRate = 8000

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEngine(t *testing.T) (*Engine, *output.Offline) {
	t.Helper()

	backend := output.NewOffline(testRate)
	e := New(Config{
		Backend: backend,
		Rand:    rand.New(rand.NewSource(42)),
	})
	require.True(t, e.Enabled())
	return e, backend
}

// renderSeconds resumes the backend and pulls d seconds of audio
func renderSeconds(t *testing.T, b *output.Offline, d float64) []float32 {
	t.Helper()

	if b.State() == output.StateSuspended {
		require.NoError(t, b.Resume())
	}
	return b.Render(int(d * testRate))
}

type failingBackend struct {
	*output.Offline
}

func (failingBackend) Attach(output.Renderer) error {
	return errors.New("device busy")
}

func TestNew_NilBackendDisablesEngine(t *testing.T) {
	e := New(Config{})

	assert.False(t, e.Enabled())

	// Every operation must be a silent no-op
	e.Play("rain")
	e.PlayNoiseBed(synth.Brown)
	e.PlayBinauralBeat(200, 5)
	e.PlayLoop("/nope.mp3")
	e.SetVolume(0.2)
	e.Stop()
	e.Stop()

	st := e.Status()
	assert.False(t, st.Enabled)
	assert.Equal(t, ModeIdle, st.Mode)
	assert.Equal(t, 0, st.Sources)
	assert.Empty(t, e.Sources())
	assert.Equal(t, 1.0, e.Gain())
}

func TestNew_AttachFailureDisablesEngine(t *testing.T) {
	e := New(Config{Backend: failingBackend{output.NewOffline(testRate)}})

	assert.False(t, e.Enabled())
	e.Play("night")
	assert.Equal(t, 0, e.Status().Sources)
}

func TestPlay_ResumesSuspendedBackend(t *testing.T) {
	e, backend := newTestEngine(t)
	require.Equal(t, output.StateSuspended, backend.State())

	e.Play("rain")

	assert.Equal(t, output.StateRunning, backend.State())
}

func TestPlay_Presets(t *testing.T) {
	tests := []struct {
		preset string
		mode   Mode
		noise  synth.NoiseKind
		cutoff float64
	}{
		{"rain", ModeNoise, synth.Pink, BrightCutoffHz},
		{"wind", ModeNoise, synth.Brown, DarkCutoffHz},
		{"forest", ModeNoise, synth.White, BrightCutoffHz},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			e, _ := newTestEngine(t)
			e.Play(tt.preset)

			st := e.Status()
			assert.Equal(t, tt.mode, st.Mode)
			assert.Equal(t, tt.preset, st.Preset)

			sources := e.Sources()
			require.Len(t, sources, 1)
			assert.Equal(t, SourceBuffer, sources[0].Kind)
			assert.Equal(t, tt.noise, sources[0].Noise)
			assert.Equal(t, tt.cutoff, sources[0].Cutoff)
			assert.False(t, sources[0].FromFile)
		})
	}
}

func TestPlay_NightIsBinaural(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Play("night")

	sources := e.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, Source{Kind: SourceOscillator, Frequency: 150, Pan: -1}, sources[0])
	assert.Equal(t, Source{Kind: SourceOscillator, Frequency: 154, Pan: 1}, sources[1])
}

func TestPlay_RainThenNightLeavesOnlyTones(t *testing.T) {
	e, backend := newTestEngine(t)

	e.Play("rain")
	renderSeconds(t, backend, 0.1)
	e.Play("night")

	sources := e.Sources()
	require.Len(t, sources, 2)
	for _, s := range sources {
		assert.Equal(t, SourceOscillator, s.Kind)
	}
	assert.Equal(t, ModeBinaural, e.Status().Mode)
}

func TestPlay_UnknownPresetKeepsPlaying(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Play("rain")

	e.Play("ocean")

	st := e.Status()
	assert.Equal(t, ModeNoise, st.Mode)
	assert.Equal(t, "rain", st.Preset)
	assert.Equal(t, 1, st.Sources)
}

func TestPlay_WindTwiceBuildsFreshBuffer(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Play("wind")
	first := e.voices[0].(*bedVoice).src.Buffer()
	e.Play("wind")
	second := e.voices[0].(*bedVoice).src.Buffer()

	require.NotSame(t, first, second)
	require.Equal(t, first.Len(), second.Len())
	assert.NotEqual(t, first.Samples, second.Samples)
	assert.False(t, e.Sources()[0].FromFile)
}

func TestPlayBinauralBeat_Defaults(t *testing.T) {
	e, _ := newTestEngine(t)
	e.PlayBinauralBeat(0, 0)

	sources := e.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, DefaultBaseHz, sources[0].Frequency)
	assert.Equal(t, DefaultBaseHz+DefaultBeatHz, sources[1].Frequency)
	assert.Equal(t, "", e.Status().Preset)
}

func TestPlayBinauralBeat_HardPanned(t *testing.T) {
	e, backend := newTestEngine(t)
	e.PlayBinauralBeat(200, 5)

	// 200 Hz alone on the left, 205 Hz alone on the right
	frames := renderSeconds(t, backend, 1)

	var leftCross, rightCross int
	for i := 2; i < len(frames); i += 2 {
		if (frames[i-2] < 0) != (frames[i] < 0) {
			leftCross++
		}
		if (frames[i-1] < 0) != (frames[i+1] < 0) {
			rightCross++
		}
	}

	assert.InDelta(t, 400, leftCross, 2)
	assert.InDelta(t, 410, rightCross, 2)
}

func TestPlayNoiseBed_IsMonoAndClamped(t *testing.T) {
	e, backend := newTestEngine(t)
	e.PlayNoiseBed(synth.White)

	frames := renderSeconds(t, backend, 0.5)

	var energy float64
	for i := 0; i < len(frames); i += 2 {
		require.Equal(t, frames[i], frames[i+1], "frame %d", i/2)
		require.LessOrEqual(t, math.Abs(float64(frames[i])), 1.0)
		energy += float64(frames[i]) * float64(frames[i])
	}
	assert.Greater(t, energy, 0.0)
}

func TestSetVolume_LastCallWins(t *testing.T) {
	e, backend := newTestEngine(t)
	e.Play("rain")

	e.SetVolume(0.9)
	e.SetVolume(0.3)
	renderSeconds(t, backend, 1.5)

	assert.InDelta(t, 0.3, e.Gain(), 1e-4)
	assert.Equal(t, 0.3, e.Status().Volume)
}

func TestSetVolume_RampsInsteadOfJumping(t *testing.T) {
	e, backend := newTestEngine(t)
	e.Play("rain")

	e.SetVolume(0)
	renderSeconds(t, backend, VolumeTimeConstant)

	// One time constant covers about 63% of the distance
	assert.InDelta(t, math.Exp(-1), e.Gain(), 0.01)
}

func TestSetVolume_SilencesOutput(t *testing.T) {
	e, backend := newTestEngine(t)
	e.Play("forest")
	e.SetVolume(0)
	renderSeconds(t, backend, 2)

	frames := backend.Render(testRate / 10)
	for _, s := range frames {
		require.InDelta(t, 0, s, 1e-6)
	}
}

func TestStop_IdleIsSafe(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Stop()
	e.Stop()

	st := e.Status()
	assert.Equal(t, ModeIdle, st.Mode)
	assert.Equal(t, 0, st.Sources)
}

func TestStop_KeepsMasterGain(t *testing.T) {
	e, backend := newTestEngine(t)
	e.Play("night")
	e.SetVolume(0.5)
	renderSeconds(t, backend, 1.5)

	e.Stop()

	assert.Equal(t, 0, e.Status().Sources)
	assert.InDelta(t, 0.5, e.Gain(), 1e-4)

	// Silent once stopped
	for _, s := range backend.Render(100) {
		require.Equal(t, float32(0), s)
	}

	// Volume carries into the next source set
	e.Play("rain")
	assert.InDelta(t, 0.5, e.Gain(), 1e-4)
}

func TestPlay_FileLoop(t *testing.T) {
	var gotPath string
	var gotRate int

	backend := output.NewOffline(testRate)
	e := New(Config{
		Backend: backend,
		LoadLoop: func(path string, sampleRate int) (*synth.Buffer, error) {
			gotPath, gotRate = path, sampleRate
			buf := synth.NewBuffer(sampleRate, sampleRate)
			for i := range buf.Samples {
				buf.Samples[i] = 0.25
			}
			return buf, nil
		},
	})

	e.Play("file:/tmp/creek.mp3")

	assert.Equal(t, "/tmp/creek.mp3", gotPath)
	assert.Equal(t, testRate, gotRate)
	assert.Equal(t, output.StateRunning, backend.State())

	st := e.Status()
	assert.Equal(t, ModeLoop, st.Mode)
	assert.Equal(t, "file:/tmp/creek.mp3", st.Preset)

	sources := e.Sources()
	require.Len(t, sources, 1)
	assert.True(t, sources[0].FromFile)
	assert.Equal(t, BrightCutoffHz, sources[0].Cutoff)

	// DC input settles at its own level through the low-pass
	frames := backend.Render(testRate / 2)
	assert.InDelta(t, 0.25, frames[len(frames)-2], 1e-3)
}

func TestPlay_FileLoopFailureKeepsPlaying(t *testing.T) {
	e := New(Config{
		Backend: output.NewOffline(testRate),
		Rand:    rand.New(rand.NewSource(7)),
		LoadLoop: func(string, int) (*synth.Buffer, error) {
			return nil, errors.New("corrupt frame")
		},
	})

	e.Play("wind")
	e.Play("file:/tmp/broken.mp3")

	st := e.Status()
	assert.Equal(t, ModeNoise, st.Mode)
	assert.Equal(t, "wind", st.Preset)
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeIdle, "idle"},
		{ModeNoise, "noise"},
		{ModeBinaural, "binaural"},
		{ModeLoop, "loop"},
		{Mode(9), "Mode(9)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

// TestProperty_AtMostOneSourceSet drives random operation sequences and checks
// that the active sources always match exactly one mode.
func TestProperty_AtMostOneSourceSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		backend := output.NewOffline(testRate)
		e := New(Config{
			Backend: backend,
			Rand:    rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed"))),
		})

		ops := rapid.SliceOfN(rapid.IntRange(0, 6), 1, 30).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				e.Play(rapid.SampledFrom([]string{"rain", "wind", "forest", "night", "bogus"}).Draw(t, "preset"))
			case 1:
				e.PlayNoiseBed(rapid.SampledFrom([]synth.NoiseKind{synth.White, synth.Pink, synth.Brown}).Draw(t, "kind"))
			case 2:
				e.PlayBinauralBeat(rapid.Float64Range(50, 400).Draw(t, "base"), rapid.Float64Range(1, 30).Draw(t, "beat"))
			case 3:
				e.SetVolume(rapid.Float64Range(0, 1).Draw(t, "level"))
			case 4:
				e.Stop()
			case 5:
				backend.Render(rapid.IntRange(1, 256).Draw(t, "frames"))
			case 6:
				_ = e.Status()
			}

			st := e.Status()
			switch st.Mode {
			case ModeIdle:
				if st.Sources != 0 {
					t.Fatalf("idle engine has %d sources", st.Sources)
				}
			case ModeNoise:
				if st.Sources != 1 {
					t.Fatalf("noise mode has %d sources", st.Sources)
				}
			case ModeBinaural:
				if st.Sources != 2 {
					t.Fatalf("binaural mode has %d sources", st.Sources)
				}
			default:
				t.Fatalf("unexpected mode %s", st.Mode)
			}
		}
	})
}
