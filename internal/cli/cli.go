// Package cli provides the command-line interface for Stocklyzer
package cli

import (
	"context"
	"os"
	"os/signal"
)

// Run starts the CLI application
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		DisplayError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
