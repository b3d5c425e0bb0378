package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	appEnv string

	rootCmd = &cobra.Command{
		Use:   "logsink",
		Short: "Structured log record sink",
		Long:  color.CyanString(`logsink - flatten structured log records and store them as table rows`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if appEnv != "" {
				return os.Setenv("APP_ENV", appEnv)
			}
			return nil
		},
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&appEnv, "env", "e", "", "environment name, selects .env.<name> (default: $APP_ENV or local)")
}
