// ABOUTME: Procedural noise generators for ambient beds
// ABOUTME: Produces white, pink and brown noise buffers from a random source
package synth

import (
	"fmt"
	"math/rand"
	"strings"
)

// BedSeconds is the length of a generated noise bed before it loops
const BedSeconds = 2

// NoiseKind selects the spectral colour of a noise bed
type NoiseKind int

const (
	White NoiseKind = iota
	Pink
	Brown
)

func (k NoiseKind) String() string {
	switch k {
	case White:
		return "white"
	case Pink:
		return "pink"
	case Brown:
		return "brown"
	default:
		return fmt.Sprintf("NoiseKind(%d)", int(k))
	}
}

// ParseNoiseKind maps "white", "pink" or "brown" to a NoiseKind
func ParseNoiseKind(s string) (NoiseKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	case "brown", "red":
		return Brown, nil
	default:
		return White, fmt.Errorf("unknown noise kind: %q", s)
	}
}

// GenerateNoise fills a BedSeconds-long mono buffer with noise of the given kind
func GenerateNoise(kind NoiseKind, sampleRate int, rng *rand.Rand) *Buffer {
	buf := NewBuffer(sampleRate, sampleRate*BedSeconds)
	data := buf.Samples

	switch kind {
	case Pink:
		fillPink(data, rng)
	case Brown:
		fillBrown(data, rng)
	default:
		fillWhite(data, rng)
	}

	return buf
}

func whiteSample(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

func fillWhite(data []float32, rng *rand.Rand) {
	for i := range data {
		data[i] = float32(whiteSample(rng))
	}
}

// fillPink runs white noise through six leaky integrators (Paul Kellet's
// refined method). b6 holds the previous input and lags by one sample.
func fillPink(data []float32, rng *rand.Rand) {
	var b0, b1, b2, b3, b4, b5, b6 float64

	for i := range data {
		w := whiteSample(rng)
		b0 = 0.99886*b0 + w*0.0555179
		b1 = 0.99332*b1 + w*0.0750759
		b2 = 0.96900*b2 + w*0.1538520
		b3 = 0.86650*b3 + w*0.3104856
		b4 = 0.55000*b4 + w*0.5329522
		b5 = -0.7616*b5 - w*0.0168981
		out := b0 + b1 + b2 + b3 + b4 + b5 + b6 + w*0.5362
		data[i] = float32(out * 0.11)
		b6 = w * 0.115926
	}
}

// fillBrown integrates white noise with a small leak so it stays bounded
func fillBrown(data []float32, rng *rand.Rand) {
	var last float64

	for i := range data {
		w := whiteSample(rng)
		last = (last + 0.02*w) / 1.02
		data[i] = float32(last * 3.5)
	}
}
