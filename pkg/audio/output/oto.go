//go:build !headless

// ABOUTME: Oto-based audio output backend
// ABOUTME: Pull-model device playback: oto reads float32 frames straight from the renderer
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Oto plays rendered frames on the default audio device
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	renderer   Renderer
	sampleRate int
	frames     atomic.Uint64
	state      atomic.Int32
	scratch    []float32
}

// NewOto opens the audio device. oto allows one context per process, so call
// this once and share the result.
func NewOto(sampleRate int) (*Oto, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create oto context: %v", ErrNoDevice, err)
	}

	<-readyChan

	o := &Oto{
		otoCtx:     ctx,
		sampleRate: sampleRate,
	}
	o.state.Store(int32(StateSuspended))

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, Channels)

	return o, nil
}

// SampleRate returns the device sample rate
func (o *Oto) SampleRate() int { return o.sampleRate }

// CurrentTime returns seconds of audio handed to the device
func (o *Oto) CurrentTime() float64 {
	return float64(o.frames.Load()) / float64(o.sampleRate)
}

// State returns the clock state
func (o *Oto) State() State { return State(o.state.Load()) }

// Attach creates the persistent player that pulls from r
func (o *Oto) Attach(r Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() == StateClosed {
		return fmt.Errorf("oto backend closed")
	}
	if o.player != nil {
		return fmt.Errorf("renderer already attached")
	}

	o.renderer = r
	o.player = o.otoCtx.NewPlayer(o)
	return nil
}

// Resume starts pulling audio from the renderer
func (o *Oto) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.State() {
	case StateClosed:
		return fmt.Errorf("oto backend closed")
	case StateRunning:
		return nil
	}

	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	if o.player != nil {
		o.player.Play()
	}
	o.state.Store(int32(StateRunning))
	return nil
}

// Suspend pauses the device without tearing down the player
func (o *Oto) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() != StateRunning {
		return nil
	}
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	o.state.Store(int32(StateSuspended))
	return nil
}

// Read implements io.Reader for the oto player
func (o *Oto) Read(p []byte) (int, error) {
	const bytesPerFrame = Channels * 4
	frames := len(p) / bytesPerFrame
	n := frames * bytesPerFrame

	if len(o.scratch) < frames*Channels {
		o.scratch = make([]float32, frames*Channels)
	}
	samples := o.scratch[:frames*Channels]
	for i := range samples {
		samples[i] = 0
	}

	if r := o.renderer; r != nil && o.State() == StateRunning {
		r.Render(samples, o.CurrentTime())
		o.frames.Add(uint64(frames))
	}

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}

	return n, nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() == StateClosed {
		return nil
	}

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Error closing oto player: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Error suspending oto context: %v", err)
		}
	}
	o.state.Store(int32(StateClosed))
	return nil
}
