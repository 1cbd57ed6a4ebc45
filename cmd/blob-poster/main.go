package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/altuslabsxyz/blob-poster/internal/output"
)

func main() {
	// Enable color output; --no-color and NO_COLOR turn it off again.
	color.NoColor = false

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		presentError(output.DefaultLogger, err)
		os.Exit(1)
	}
}
