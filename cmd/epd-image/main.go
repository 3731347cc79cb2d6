package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/epd-image/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if err := cli.Execute(ctx, info, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
