// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"techsite/web/internal/auth"
)

// watchCmd keeps the session alive in the foreground. The manager refreshes
// the access token ahead of expiry; every transition is printed until the
// session ends or the command is interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session fresh and print state changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		updates, unsubscribe := a.mgr.Subscribe()
		defer unsubscribe()

		if err := a.mgr.Load(ctx); err != nil {
			pterm.Warning.Println(reportErr(err, "loading your session", a.cfg.BaseURL))
		}

		for {
			select {
			case <-ctx.Done():
				pterm.Info.Println("Stopped watching")
				return nil
			case st, ok := <-updates:
				if !ok {
					return nil
				}
				switch st.Phase() {
				case auth.PhaseLoading:
					pterm.Info.Println("Loading session…")
				case auth.PhaseAuthenticated:
					line := "Signed in as " + st.User.DisplayName()
					if at, ok := a.mgr.Pending(); ok {
						line += ", next refresh in " + formatDuration(time.Until(at))
					}
					pterm.Success.Println(line)
				case auth.PhaseUnauthenticated:
					pterm.Warning.Println("Session ended")
					printNotLoggedIn(os.Stdout)
					return nil
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
