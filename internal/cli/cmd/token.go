package cmd

import (
	"errors"
	"fmt"
	"time"

	"go-logsink/internal/config"
	"go-logsink/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	tokenTTL time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token <source>",
		Short: "Issue a bearer token for an ingest client",
		Long:  "Sign a token with JWT_SECRET; records posted with it carry extra.source=<source>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(nil)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := utils.GenerateToken(args[0], cfg.JWTSecret, tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("token for %q, valid %s:", args[0], tokenTTL))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
)

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
