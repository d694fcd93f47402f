// ABOUTME: Loop loader for file-backed ambient beds
// ABOUTME: Picks a decoder by extension and resamples to the output rate
package decode

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/stillwater-audio/stillwater-go/pkg/audio/resample"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
)

// ErrUnsupportedFormat is returned for files no decoder understands
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// LoadLoop decodes an MP3 or WAV file into a mono buffer at sampleRate
func LoadLoop(path string, sampleRate int) (*synth.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".wav" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open loop: %w", err)
	}
	defer f.Close()

	var buf *synth.Buffer
	switch ext {
	case ".mp3":
		buf, err = DecodeMP3(f)
	case ".wav":
		buf, err = DecodeWAV(f)
	}
	if err != nil {
		return nil, err
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("loop %s is empty", path)
	}

	if buf.SampleRate != sampleRate {
		log.Printf("Resampling loop %s: %dHz -> %dHz", filepath.Base(path), buf.SampleRate, sampleRate)
		buf = &synth.Buffer{
			SampleRate: sampleRate,
			Samples:    resample.Convert(buf.Samples, buf.SampleRate, sampleRate),
		}
	}

	return buf, nil
}
