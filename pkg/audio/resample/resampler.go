// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Brings decoded loops to the output device's sample rate
package resample

import "math"

// Convert resamples a whole mono loop with linear interpolation. The output
// covers the same duration as the input. Positions past the last input
// sample interpolate toward the first, so the loop seam stays continuous.
func Convert(input []float32, inputRate, outputRate int) []float32 {
	if inputRate == outputRate || inputRate <= 0 || outputRate <= 0 || len(input) == 0 {
		out := make([]float32, len(input))
		copy(out, input)
		return out
	}

	n := len(input)
	ratio := float64(inputRate) / float64(outputRate)
	outLen := int(math.Round(float64(n) / ratio))
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float32, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		s1 := input[idx%n]
		s2 := input[(idx+1)%n]
		out[i] = s1*(1-frac) + s2*frac
	}

	return out
}
