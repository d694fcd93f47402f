// ABOUTME: version command
// ABOUTME: Prints the build version, Go runtime and platform
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s/%s)\n",
				version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
