// Command cloudxr-go drives the bridge against the simulated engine the way
// an AR host would: a UI goroutine issuing lifecycle and gesture calls and a
// render goroutine drawing frames.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
