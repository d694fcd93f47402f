// ABOUTME: serve command: remote-control server in the foreground
// ABOUTME: Lets LAN clients drive the engine over WebSocket
package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/internal/version"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		name   string
		noMDNS bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the remote-control server",
		Long: `Serve the WebSocket control endpoint (/stillwater) so other devices can
play presets, change volume and stop playback. Edits to the config file's
volume and preset are applied live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Remote.Port = port
			}
			if name != "" {
				a.cfg.Remote.Name = name
			}
			if noMDNS {
				a.cfg.Remote.MDNS = false
			}
			return a.runServe()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "advertised server name")
	cmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "disable mDNS advertisement")

	return cmd
}

func (a *app) runServe() error {
	closeLog, err := setupLogging(a.cfg.LogFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("Starting %s (remote control)", version.String())

	engine, backend := newEngine(a.cfg)
	defer closeBackend(backend)

	engine.SetVolume(a.cfg.Volume)

	srv := newRemoteServer(a.cfg, engine)
	a.watchConfig(engine, srv.BroadcastState)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		log.Printf("Shutdown signal received")
		srv.Stop()
	}()

	err = srv.Start()
	engine.Stop()
	return err
}
