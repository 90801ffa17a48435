package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"energy-forecast/internal/browser"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(browser.System{}).ExecuteContext(ctx)
	stop()

	if err != nil {
		var ece *exitCodeError
		if errors.As(err, &ece) {
			os.Exit(ece.code)
		}
		fmt.Fprintln(os.Stderr, "energy-forecast:", err)
		os.Exit(ExitInvalidConfig)
	}
}
