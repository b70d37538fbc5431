// Command h5nav browses the group/dataset hierarchy of a scientific data
// file in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "h5nav: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}
