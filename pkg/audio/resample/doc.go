// ABOUTME: Sample-rate conversion package
// ABOUTME: Linear interpolation resampling for imported loops
// Package resample converts mono float32 loops between sample rates.
//
// Linear interpolation is enough for ambient loops that are low-passed
// before playback.
//
// Example:
//
//	out := resample.Convert(clip, 44100, 48000)
package resample
