// ABOUTME: WAV export of rendered audio
// ABOUTME: Encodes interleaved float32 frames as 16-bit PCM via go-audio/wav
package output

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/stillwater-audio/stillwater-go/pkg/audio"
)

const wavBitDepth = 16

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// WriteWAV encodes interleaved float samples as a 16-bit PCM WAV file
func WriteWAV(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", channels)
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), channels)
	}

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, channels, wavFormatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(audio.FloatToInt16(s))
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}

	return nil
}
