package cmd

import (
	"go-logsink/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingest server",
	Long:  "Accept JSON log records on POST /api/v1/logs and insert them into the configured table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
