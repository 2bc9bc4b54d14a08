// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"techsite/web/internal/guard"
	"techsite/web/internal/site"
)

var serveAddr string

// serveCmd runs the site front end with the route guard in front of every page.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with cookie-based route guarding",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := site.New(site.Options{
			Rules:  guard.DefaultRules(),
			Logger: logger,
			Dev:    cfg.Dev,
		})
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config listen_addr)")
	rootCmd.AddCommand(serveCmd)
}
