// ABOUTME: Procedural soundscape engine
// ABOUTME: Presets, noise beds and binaural beats behind one master gain
// Package soundscape synthesizes ambient audio for the sanctuary screen.
//
// An Engine owns a single audio graph attached to an output.Backend. Every
// play call tears down the previous sources before building new ones, so at
// most one kind of source set is ever audible. The master gain survives
// play/stop cycles and ramps toward each new volume.
//
// Without a backend the engine is disabled and every call does nothing.
//
// Example:
//
//	backend, err := output.NewOto(48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := soundscape.New(soundscape.Config{Backend: backend})
//	engine.Play("rain")
//	engine.SetVolume(0.6)
//	engine.Stop()
package soundscape
