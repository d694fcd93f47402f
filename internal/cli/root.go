// ABOUTME: Root cobra command and shared flag/config wiring
// ABOUTME: Running stillwater with no subcommand opens the sanctuary screen
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stillwater-audio/stillwater-go/internal/config"
	"github.com/stillwater-audio/stillwater-go/internal/session"
	"github.com/stillwater-audio/stillwater-go/internal/ui"
	"github.com/stillwater-audio/stillwater-go/internal/version"
)

// app carries state shared by every command
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "stillwater",
		Short: "Procedural ambient soundscapes for focus and rest",
		Long: `Stillwater synthesizes ambient audio: filtered noise beds (rain, wind,
forest) and binaural beats (night). With no subcommand it opens the
sanctuary screen with a focus timer and a 4-7-8 breathing guide.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: a.runSanctuary,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.String("backend", "", "audio backend: oto or none")
	pf.Int("sample-rate", 0, "output sample rate in Hz")
	pf.Float64("volume", 0, "master volume 0.0-1.0")
	pf.String("log-file", "", "log file path")
	pf.Bool("debug", false, "enable debug logging")

	root.Flags().String("preset", "", "initially selected soundscape")
	root.Flags().Int("focus", 0, "focus session length in minutes")
	root.Flags().Bool("remote", false, "also run the remote-control server")

	bindFlags(a.v, root, map[string]string{
		"backend":     "backend",
		"sample_rate": "sample-rate",
		"volume":      "volume",
		"log_file":    "log-file",
		"debug":       "debug",
	})
	bindLocalFlags(a.v, root, map[string]string{
		"preset":         "preset",
		"focus_minutes":  "focus",
		"remote.enabled": "remote",
	})

	root.AddCommand(
		newPlayCmd(a),
		newRenderCmd(a),
		newPresetsCmd(),
		newServeCmd(a),
		newConfigCmd(a),
		newDiscoverCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Printf("Failed to bind --%s: %v", flag, err)
		}
	}
}

func bindLocalFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			log.Printf("Failed to bind --%s: %v", flag, err)
		}
	}
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// runSanctuary opens the TUI
func (a *app) runSanctuary(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(a.cfg.LogFile, true)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("Starting %s (TUI)", version.String())

	engine, backend := newEngine(a.cfg)
	defer closeBackend(backend)

	engine.SetVolume(a.cfg.Volume)

	timer := newFocusTimer(a.cfg, engine)

	if a.cfg.Remote.Enabled {
		srv := newRemoteServer(a.cfg, engine)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("Remote control failed: %v", err)
			}
		}()
		defer srv.Stop()
	}

	return ui.Run(engine, ui.Options{Preset: a.cfg.Preset, Timer: timer})
}

func newFocusTimer(cfg config.Config, engine interface{ Stop() }) *session.FocusTimer {
	timer := session.NewFocusTimer(minutes(cfg.FocusMinutes))
	timer.OnExpire = func(string) { engine.Stop() }
	return timer
}
