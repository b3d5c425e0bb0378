package cmd

import (
	"fmt"
	"io"
	"os"

	"go-logsink/internal/app"

	"github.com/spf13/cobra"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe [file]",
	Short: "Sink newline-delimited JSON records",
	Long:  "Read one JSON log record per line from a file or stdin and insert each into the configured table",
	Args:  cobra.MaximumNArgs(1),
	Example: `  tail -F app.ndjson | logsink pipe
  logsink pipe --env production records.ndjson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open records file: %w", err)
			}
			defer f.Close()
			in = f
		}
		return app.Pipe(in)
	},
}

func init() {
	rootCmd.AddCommand(pipeCmd)
}
