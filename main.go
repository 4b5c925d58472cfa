package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/saint0x/ggsum/cmd"
)

func main() {
	// A user interrupt cancels the in-flight provider request; external
	// writes only ever happen after a full result exists, so nothing is
	// left half-written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
