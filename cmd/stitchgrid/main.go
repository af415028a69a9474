// Command stitchgrid draws warped grids and the stitch patterns woven through
// them. See "stitchgrid --help" for the available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/stitchgrid/internal/cli"
)

// exitInterrupted is the shell convention for a process ended by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
