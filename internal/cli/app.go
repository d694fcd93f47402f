// ABOUTME: Shared setup for CLI commands
// ABOUTME: Logging destinations, audio backend selection and engine construction
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/stillwater-audio/stillwater-go/internal/config"
	"github.com/stillwater-audio/stillwater-go/internal/remote"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/output"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

// setupLogging sends logs to the log file only (TUI mode) or to stdout and
// the file (streaming mode). The returned func closes the file.
func setupLogging(path string, tui bool) (func(), error) {
	if path == "" {
		if tui {
			log.SetOutput(io.Discard)
		}
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	if tui {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// openBackend returns the configured device backend, or nil when audio is
// disabled or unavailable
func openBackend(cfg config.Config) output.Backend {
	if cfg.Backend == config.BackendNone {
		log.Printf("Audio backend disabled by config")
		return nil
	}

	b, err := output.NewOto(cfg.SampleRate)
	if err != nil {
		log.Printf("Audio output unavailable: %v", err)
		return nil
	}
	return b
}

// newEngine builds the single engine instance for a command
func newEngine(cfg config.Config) (*soundscape.Engine, output.Backend) {
	backend := openBackend(cfg)
	engine := soundscape.New(soundscape.Config{
		Backend: backend,
		Debug:   cfg.Debug,
	})
	return engine, backend
}

func closeBackend(b output.Backend) {
	if b == nil {
		return
	}
	if err := b.Close(); err != nil {
		log.Printf("Error closing audio backend: %v", err)
	}
}

func newRemoteServer(cfg config.Config, engine *soundscape.Engine) *remote.Server {
	return remote.New(remote.Config{
		Port:       cfg.Remote.Port,
		Name:       cfg.Remote.Name,
		EnableMDNS: cfg.Remote.MDNS,
		Debug:      cfg.Debug,
	}, engine)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
