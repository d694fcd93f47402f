// ABOUTME: Audio decoder package for file-backed loops
// ABOUTME: Decodes MP3 and WAV files into mono synth buffers
// Package decode turns audio files into loopable mono buffers.
//
// Supports: MP3 (go-mp3) and PCM WAV (go-audio/wav).
//
// Example:
//
//	buf, err := decode.LoadLoop("/path/to/stream.mp3", 48000)
package decode
