// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes a whole MP3 file to a mono float buffer
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/stillwater-audio/stillwater-go/pkg/audio"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

// DecodeMP3 reads an entire MP3 stream and downmixes it to mono.
// go-mp3 always produces 16-bit little-endian stereo.
func DecodeMP3(r io.Reader) (*synth.Buffer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	return &synth.Buffer{
		SampleRate: decoder.SampleRate(),
		Samples:    stereo16ToMono(pcm),
	}, nil
}

// stereo16ToMono averages interleaved s16le stereo frames
func stereo16ToMono(pcm []byte) []float32 {
	const bytesPerFrame = 4
	frames := len(pcm) / bytesPerFrame

	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerFrame:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerFrame+2:]))
		mono[i] = (audio.Int16ToFloat(l) + audio.Int16ToFloat(r)) / 2
	}

	return mono
}
