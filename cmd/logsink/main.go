package main

import (
	"os"

	"go-logsink/internal/cli/cmd"
)

var (
	version   = ""
	gitCommit = ""
)

func main() {
	cmd.Version = version
	cmd.GitCommit = gitCommit
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
