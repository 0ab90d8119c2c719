// Command triage runs one support ticket through a team of hosted agents and
// prints how they classified it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(defaultApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
