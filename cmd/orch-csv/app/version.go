package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "orch-csv %s\n", a.version)
			fmt.Fprintf(out, "  commit:  %s\n", a.commit)
			fmt.Fprintf(out, "  built:   %s\n", a.date)
			fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
