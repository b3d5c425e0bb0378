package cmd

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information injected via main package
var (
	Version   string
	GitCommit string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		label := color.New(color.FgGreen)
		color.New(color.FgCyan, color.Bold).Fprintf(out, "logsink %s\n", fallback(Version, "dev"))

		label.Fprint(out, "Git commit: ")
		fmt.Fprintln(out, fallback(GitCommit, "unknown"))

		label.Fprint(out, "Go version: ")
		fmt.Fprintln(out, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
