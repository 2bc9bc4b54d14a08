// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for techsite. It drives the
// session manager for sign-in, sign-out and session inspection, and hosts the
// guarded site front end.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"techsite/web/internal/logging"
)

var (
	showVersion bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "techsite",
	Short:         "Techsite account and session tool",
	Long:          `techsite signs you in to the Techsite identity service, keeps the session fresh and serves the guarded site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd.Context())
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("error", err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and identity service version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
