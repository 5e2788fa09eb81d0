// acdbot - An interactive network traffic generator and monitoring console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"acdbot/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "acdbot: %v\n", err)
		os.Exit(1)
	}
}
