// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"techsite/web/internal/backend"
)

var (
	signupEmail     string
	signupFirstName string
	signupLastName  string
)

// signupCmd registers an account. The identity service emails a verification
// link; signing in is a separate step.
var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"sign-up", "register"},
	Short:   "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := backend.SignUpRequest{
			FirstName: strings.TrimSpace(signupFirstName),
			LastName:  strings.TrimSpace(signupLastName),
			Email:     strings.TrimSpace(signupEmail),
		}
		if req.Email == "" {
			return errors.New("--email is required")
		}
		pw, err := readNewPassword()
		if err != nil {
			return err
		}
		req.Password = pw

		api, cfg, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := api.SignUp(cmd.Context(), req); err != nil {
			return reportErr(err, "creating your account", cfg.BaseURL)
		}
		fmt.Printf("🎉 Account created. Check %s for a verification link.\n", req.Email)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupFirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&signupLastName, "last-name", "", "Last name")
	rootCmd.AddCommand(signupCmd)
}
