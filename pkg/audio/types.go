// ABOUTME: Audio type definitions
// ABOUTME: Defines output formats and float/PCM sample conversion
package audio

const (
	// Output defaults used by the device and offline backends
	DefaultSampleRate = 48000
	DefaultChannels   = 2

	// 16-bit PCM range constants
	MaxInt16 = 32767
	MinInt16 = -32768
)

// Format describes a rendered PCM stream
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat returns the format the engine renders by default
func DefaultFormat() Format {
	return Format{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		BitDepth:   16,
	}
}

// FrameCount returns the number of frames in n interleaved samples
func (f Format) FrameCount(n int) int {
	if f.Channels <= 0 {
		return 0
	}
	return n / f.Channels
}

// Clamp limits a float sample to [-1, 1]
func Clamp(sample float32) float32 {
	if sample > 1 {
		return 1
	}
	if sample < -1 {
		return -1
	}
	return sample
}

// FloatToInt16 converts a float sample in [-1, 1] to 16-bit PCM, clipping out-of-range input
func FloatToInt16(sample float32) int16 {
	s := Clamp(sample)
	if s < 0 {
		return int16(s * -MinInt16)
	}
	return int16(s * MaxInt16)
}

// Int16ToFloat converts a 16-bit PCM sample to a float in [-1, 1)
func Int16ToFloat(sample int16) float32 {
	return float32(sample) / -MinInt16
}
