// ABOUTME: play command: headless playback with streaming logs
// ABOUTME: Runs a preset until interrupted or the focus session ends
package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/internal/config"
	"github.com/stillwater-audio/stillwater-go/internal/version"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/output"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

func newPlayCmd(a *app) *cobra.Command {
	var focus int

	cmd := &cobra.Command{
		Use:   "play [preset]",
		Short: "Play a soundscape without the TUI",
		Long: `Play a preset (rain, wind, forest, night) or a loop file (file:/path.mp3)
with logs streamed to stdout. Stops on Ctrl+C or when the focus session ends.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := a.cfg.Preset
			if len(args) == 1 {
				preset = args[0]
			}
			if focus > 0 {
				a.cfg.FocusMinutes = focus
			}
			return a.runPlay(preset)
		},
	}

	cmd.Flags().IntVar(&focus, "focus", 0, "stop after this many minutes (default from config)")

	return cmd
}

func (a *app) runPlay(preset string) error {
	closeLog, err := setupLogging(a.cfg.LogFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("Starting %s: %s", version.String(), preset)

	engine, backend := newEngine(a.cfg)
	defer closeBackend(backend)

	if !engine.Enabled() {
		return fmt.Errorf("cannot play %s: %w", preset, output.ErrNoDevice)
	}

	engine.SetVolume(a.cfg.Volume)
	engine.Play(preset)

	done := make(chan string, 1)
	timer := newFocusTimer(a.cfg, engine)
	timer.OnExpire = func(id string) {
		engine.Stop()
		done <- "focus session complete"
	}
	timer.Toggle()

	debug := a.cfg.Debug
	a.watchConfig(engine, nil)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			timer.Advance(time.Second)
			if debug {
				log.Printf("[DEBUG] %s left, gain %.2f", timer.Format(), engine.Gain())
			}
		case reason := <-done:
			log.Printf("Stopping: %s", reason)
			return nil
		case <-sigChan:
			log.Printf("Shutdown signal received")
			engine.Stop()
			return nil
		}
	}
}

// watchConfig applies volume and preset edits from the config file while
// playing. onApply, if set, runs after each applied change.
func (a *app) watchConfig(engine *soundscape.Engine, onApply func()) {
	if a.v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(a.v.ConfigFileUsed()); err != nil {
		return
	}

	config.Watch(a.v, func(cfg config.Config, e fsnotify.Event) {
		prev := a.cfg
		a.cfg = cfg

		if cfg.Volume != prev.Volume {
			engine.SetVolume(cfg.Volume)
		}
		if cfg.Preset != prev.Preset && engine.Status().Mode != soundscape.ModeIdle {
			engine.Play(cfg.Preset)
		}
		if onApply != nil {
			onApply()
		}
	})
}
