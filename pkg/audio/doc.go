// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and float <-> PCM sample conversion
// Package audio provides the sample types shared by the synthesis, output and
// decode packages.
//
// All synthesis happens in float32 in [-1, 1]. Conversions to 16-bit PCM
// happen only at the edges (WAV export, MP3 import).
//
// Example:
//
//	format := audio.DefaultFormat()
//	pcm := audio.FloatToInt16(0.5)
package audio
