// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI and identity service versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.Context())
	},
}

func printVersion(ctx context.Context) error {
	backendVersion := "unknown"
	if api, _, err := newClient(ctx); err == nil {
		if v, err := api.GetVersion(ctx); err == nil && v != "" {
			backendVersion = v
		}
	}
	fmt.Printf("techsite %s\nidentity service %s\n", Version, backendVersion)
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
