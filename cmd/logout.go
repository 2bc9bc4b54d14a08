// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// logoutCmd ends the session. The server-side logout is best effort; local
// credentials are always removed, even when the identity service is
// unreachable.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove stored tokens",
	Long: `The logout command asks the identity service to invalidate the current session
and removes the access and refresh tokens from the OS keychain. Local removal
happens even when the service cannot be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			// No usable backend; clear what is stored locally and stop there.
			cfg, logger, cerr := loadConfig()
			if cerr != nil {
				return err
			}
			store, serr := openStore(cfg, logger)
			if serr != nil {
				return serr
			}
			if clearErr := store.ClearTokens(); clearErr != nil {
				return clearErr
			}
			fmt.Println("✅ Local credentials removed (identity service not contacted)")
			return nil
		}
		defer a.Close()
		return runLogout(ctx, a, os.Stdout)
	},
}

// runLogout signs out without loading the session first. Logout sends the
// stored access token to the identity service as it is, so a failing profile
// lookup or an expired token cannot drop the credentials before the server
// sees them.
func runLogout(ctx context.Context, a *app, out io.Writer) error {
	if err := a.mgr.Logout(ctx); err != nil {
		return reportErr(err, "signing out", a.cfg.BaseURL)
	}
	fmt.Fprintln(out, "✅ Signed out. Tokens removed from this device.")
	return nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
