// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"techsite/web/internal/auth"
)

// sessionCmd prints the session phase, token lifetime and refresh schedule.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show session state and refresh schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		loadErr := a.mgr.Load(ctx)
		st := a.mgr.Snapshot()

		rows := [][]string{{"Phase", st.Phase().String()}}
		if st.User != nil {
			rows = append(rows, []string{"User", fmt.Sprintf("%s <%s>", st.User.DisplayName(), st.User.Email)})
		}
		if access, ok := a.store.AccessToken(); ok {
			left := time.Duration(a.store.TokenTimeRemaining(access)) * time.Second
			rows = append(rows, []string{"Access token expires in", formatDuration(left)})
		}
		_, hasRefresh := a.store.RefreshToken()
		rows = append(rows, []string{"Refresh token stored", fmt.Sprintf("%t", hasRefresh)})
		if at, ok := a.mgr.Pending(); ok && st.Phase() == auth.PhaseAuthenticated {
			rows = append(rows, []string{"Next refresh in", formatDuration(time.Until(at))})
		}
		if loadErr != nil {
			rows = append(rows, []string{"Last error", loadErr.Error()})
		}
		return printSessionTable(rows)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
