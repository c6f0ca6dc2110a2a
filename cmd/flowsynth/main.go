// Package main provides the entry point for the flowsynth CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrz1836/flowsynth/internal/cli"
)

// Set at build time via ldflags.
//
//nolint:gochecknoglobals // Build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	stop()
	os.Exit(cli.ExitCodeForError(err))
}
