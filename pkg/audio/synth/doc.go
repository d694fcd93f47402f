// ABOUTME: Synthesis primitives for procedural ambient audio
// ABOUTME: Noise generators, oscillators, filters, panners and parameters
// Package synth holds the signal-level building blocks the soundscape engine
// wires into a graph:
//   - GenerateNoise: white, pink and brown noise beds
//   - BufferSource: looping playback of a Buffer
//   - Oscillator: sine tones
//   - Biquad: low-pass filtering
//   - Panner: equal-power stereo placement
//   - Param: gain automation with setTargetAtTime semantics
//
// Nodes are not safe for concurrent use; the engine serializes access.
package synth
