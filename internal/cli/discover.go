// ABOUTME: discover command
// ABOUTME: Finds Stillwater remote-control servers on the LAN via mDNS
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/internal/discovery"
)

func newDiscoverCmd() *cobra.Command {
	var (
		timeout time.Duration
		watch   bool
	)

	cmd := &cobra.Command{
		Use:               "discover",
		Short:             "Find remote-control servers on the local network",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				mgr := discovery.NewManager(discovery.Config{})
				if err := mgr.Browse(); err != nil {
					return err
				}
				defer mgr.Stop()

				fmt.Fprintln(out, "Watching for servers (Ctrl+C to stop)")
				watchServers(ctx, out, mgr.Servers())
				return nil
			}

			servers, err := discovery.Lookup(timeout)
			if err != nil {
				return err
			}

			if len(servers) == 0 {
				fmt.Fprintln(out, "No servers found")
				return nil
			}
			for _, s := range servers {
				printServer(out, s)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to listen for answers")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep browsing and print servers as they appear")

	return cmd
}

// watchServers prints servers until ctx ends or the channel closes
func watchServers(ctx context.Context, out io.Writer, servers <-chan *discovery.ServerInfo) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-servers:
			if !ok {
				return
			}
			printServer(out, s)
		}
	}
}

func printServer(out io.Writer, s *discovery.ServerInfo) {
	fmt.Fprintf(out, "  %-24s %s\n", s.Name, s.URL())
}
