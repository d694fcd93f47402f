// ABOUTME: WAV audio decoder
// ABOUTME: Decodes PCM WAV files to a mono float buffer via go-audio/wav
package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

const wavFormatPCM = 1

// DecodeWAV reads an entire PCM WAV file and downmixes it to mono
func DecodeWAV(r io.ReadSeeker) (*synth.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav file", ErrUnsupportedFormat)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav format tag %d is not PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if dec.BitDepth == 0 || dec.BitDepth > 32 {
		return nil, fmt.Errorf("%w: wav bit depth %d", ErrUnsupportedFormat, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: wav has no channels", ErrUnsupportedFormat)
	}

	scale := float32(int64(1) << (dec.BitDepth - 1))

	// 8-bit PCM is unsigned with silence at 128
	var offset float32
	if dec.BitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels

	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += (float32(buf.Data[i*channels+ch]) - offset) / scale
		}
		mono[i] = sum / float32(channels)
	}

	return &synth.Buffer{
		SampleRate: int(dec.SampleRate),
		Samples:    mono,
	}, nil
}
