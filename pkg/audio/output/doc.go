// ABOUTME: Audio output package for playing and exporting audio
// ABOUTME: Provides the Backend interface with oto and offline implementations
// Package output provides the audio contexts the soundscape engine renders into.
//
// Backends pull frames from a single Renderer:
//   - Oto: the default audio device (disabled with -tags headless)
//   - Offline: a manually clocked backend for WAV export and tests
//
// An environment with no backend at all is modelled by passing a nil Backend
// to the engine, which then does nothing.
//
// Example:
//
//	backend := output.NewOffline(48000)
//	engine := soundscape.New(soundscape.Config{Backend: backend})
//	engine.Play("rain")
//	frames := backend.Render(48000)
//	err := output.WriteWAV(f, 48000, output.Channels, frames)
package output
