// Package main is the entry point for the edgeztp CLI.
//
// edgeztp prepares a freshly deployed SD-WAN edge appliance for zero-touch
// onboarding: it maps the cloud instance's network interfaces to appliance
// roles, creates a REST account over SSH, sets interface hardware addresses
// and registers the appliance with the fleet controller.
//
// Commands: provision, plan, validate, version, completion.
//
// For detailed usage information, run:
//
//	edgeztp --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/edgeztp/cmd/edgeztp/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
