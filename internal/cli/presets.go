// ABOUTME: presets command
// ABOUTME: Lists the built-in soundscapes and their signal chains
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "presets",
		Short:             "List available soundscapes",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range soundscape.Presets() {
				fmt.Fprintf(out, "  %-8s %-16s %s\n", p.Name, p.Title, p.Describe())
			}
			fmt.Fprintf(out, "\n  %s<path>  loop an MP3 or WAV file\n", soundscape.FilePrefix)
			return nil
		},
	}
}

// skipConfig replaces the root config loading for commands that never use it
func skipConfig(cmd *cobra.Command, args []string) error {
	return nil
}
