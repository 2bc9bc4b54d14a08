package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// whoamiCmd shows the signed-in user after validating the stored session
// with the identity service, refreshing it first when it has expired.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return runWhoami(ctx, a, os.Stdout)
	},
}

func runWhoami(ctx context.Context, a *app, out io.Writer) error {
	if err := a.mgr.Load(ctx); err != nil {
		a.logger.Debug("session load failed", a.logger.Args("error", err))
		_ = reportErr(err, "checking your session", a.cfg.BaseURL)
	}

	st := a.mgr.Snapshot()
	if !st.IsAuthenticated {
		printNotLoggedIn(out)
		return nil
	}
	fmt.Fprintf(out, "👤 Current user: %s <%s>\n", st.User.DisplayName(), st.User.Email)
	return nil
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
