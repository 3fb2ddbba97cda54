// Package cmd defines and implements the CLI commands for the pricetracker executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricetracker",
		Short: "Track Amazon product prices and serve their history over HTTP.",
		Long: `pricetracker fetches Amazon product listing pages by ASIN, extracts the
current price and title, persists every observation, and serves the
running price history through a small HTTP API.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus TRACKER_* env vars)")

	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
