// ABOUTME: Tests for file decoders
// ABOUTME: Tests downmixing, WAV round trips and loader errors
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV encodes integer PCM frames with go-audio/wav
func writeTestWAV(t *testing.T, path string, sampleRate, bitDepth, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

// wavHeader builds a canonical 44-byte header for n data bytes
func wavHeader(formatTag, channels, sampleRate, bitDepth, n int) []byte {
	h := make([]byte, 44)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], uint32(36+n))
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	binary.LittleEndian.PutUint32(h[16:], 16)
	binary.LittleEndian.PutUint16(h[20:], uint16(formatTag))
	binary.LittleEndian.PutUint16(h[22:], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:], uint32(sampleRate*channels*bitDepth/8))
	binary.LittleEndian.PutUint16(h[32:], uint16(channels*bitDepth/8))
	binary.LittleEndian.PutUint16(h[34:], uint16(bitDepth))
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], uint32(n))
	return h
}

func TestStereo16ToMono(t *testing.T) {
	half, negHalf := int16(16384), int16(-16384)

	pcm := make([]byte, 8)
	binary.LittleEndian.PutUint16(pcm[0:], uint16(half))
	binary.LittleEndian.PutUint16(pcm[2:], uint16(negHalf))
	binary.LittleEndian.PutUint16(pcm[4:], uint16(half))
	binary.LittleEndian.PutUint16(pcm[6:], uint16(half))

	mono := stereo16ToMono(pcm)
	if len(mono) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(mono))
	}
	if mono[0] != 0 {
		t.Errorf("expected opposite channels to cancel, got %f", mono[0])
	}
	if mono[1] != 0.5 {
		t.Errorf("expected 0.5, got %f", mono[1])
	}
}

func TestDecodeMP3_InvalidData(t *testing.T) {
	_, err := DecodeMP3(bytes.NewReader([]byte("definitely not an mp3 stream")))
	if err == nil {
		t.Fatal("expected error for invalid mp3 data")
	}
}

func TestLoadLoop_UnsupportedExtension(t *testing.T) {
	_, err := LoadLoop("/tmp/ambience.ogg", 48000)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadLoop_MissingFile(t *testing.T) {
	_, err := LoadLoop(filepath.Join(t.TempDir(), "missing.mp3"), 48000)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadLoop_WAVResampled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.wav")

	// One second of 16-bit stereo at 24kHz, left 0.5 and right 0
	data := make([]int, 2*24000)
	for i := 0; i < 24000; i++ {
		data[i*2] = 16384
	}
	writeTestWAV(t, path, 24000, 16, 2, data)

	buf, err := LoadLoop(path, 48000)
	if err != nil {
		t.Fatalf("LoadLoop failed: %v", err)
	}

	if buf.SampleRate != 48000 {
		t.Errorf("expected 48000Hz, got %d", buf.SampleRate)
	}
	if buf.Len() < 47990 || buf.Len() > 48000 {
		t.Errorf("expected ~48000 samples, got %d", buf.Len())
	}
	if got := buf.Samples[100]; got < 0.249 || got > 0.251 {
		t.Errorf("expected downmixed 0.25, got %f", got)
	}
}

func TestDecodeWAV_RejectsGarbage(t *testing.T) {
	_, err := DecodeWAV(bytes.NewReader([]byte("RIFFnope")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeWAV_EightBitIsUnsigned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop8.wav")

	// 8-bit PCM: 128 is silence, 192 is +0.5, 64 is -0.5
	data := make([]int, 800)
	for i := range data {
		switch {
		case i < 400:
			data[i] = 128
		case i < 600:
			data[i] = 192
		default:
			data[i] = 64
		}
	}
	writeTestWAV(t, path, 8000, 8, 1, data)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	buf, err := DecodeWAV(f)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if buf.Len() != 800 {
		t.Fatalf("expected 800 samples, got %d", buf.Len())
	}
	if buf.Samples[0] != 0 || buf.Samples[399] != 0 {
		t.Errorf("expected silence to decode to 0, got %f and %f", buf.Samples[0], buf.Samples[399])
	}
	if buf.Samples[400] != 0.5 {
		t.Errorf("expected 192 to decode to 0.5, got %f", buf.Samples[400])
	}
	if buf.Samples[700] != -0.5 {
		t.Errorf("expected 64 to decode to -0.5, got %f", buf.Samples[700])
	}
}

func TestLoadLoop_EightBitSilenceHasNoOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silence.wav")

	data := make([]int, 8000)
	for i := range data {
		data[i] = 128
	}
	writeTestWAV(t, path, 8000, 8, 1, data)

	buf, err := LoadLoop(path, 8000)
	if err != nil {
		t.Fatalf("LoadLoop failed: %v", err)
	}

	for i, s := range buf.Samples {
		if s != 0 {
			t.Fatalf("sample %d: expected silence, got %f", i, s)
		}
	}
}

func TestDecodeWAV_RejectsNonPCM(t *testing.T) {
	// IEEE float tag, 32-bit mono, 4 frames
	data := wavHeader(3, 1, 8000, 32, 16)
	data = append(data, make([]byte, 16)...)

	_, err := DecodeWAV(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeWAV_AcceptsHandBuiltPCM(t *testing.T) {
	// 16-bit mono, two frames: +0.5 and -0.5
	data := wavHeader(1, 1, 8000, 16, 4)
	pcm := make([]byte, 4)
	half, negHalf := int16(16384), int16(-16384)
	binary.LittleEndian.PutUint16(pcm[0:], uint16(half))
	binary.LittleEndian.PutUint16(pcm[2:], uint16(negHalf))
	data = append(data, pcm...)

	buf, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if buf.Len() != 2 || buf.Samples[0] != 0.5 || buf.Samples[1] != -0.5 {
		t.Errorf("expected [0.5 -0.5], got %v", buf.Samples)
	}
}
