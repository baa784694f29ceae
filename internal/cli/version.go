package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version, injected via ldflags
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the build information shown by --version and `version`.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

func versionTemplate() string {
	return fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date)
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(c.Out, "%s%s\n", versionTemplate(), runtime.Version())
			return err
		},
	}
}
