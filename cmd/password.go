// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"techsite/web/internal/terminal"
)

var (
	forgotEmail string
	resetToken  string
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Recover or reset your password",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Email a password reset link",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(forgotEmail)
		if email == "" {
			return errors.New("--email is required")
		}
		api, cfg, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := api.ForgotPassword(cmd.Context(), email); err != nil {
			return reportErr(err, "requesting a password reset", cfg.BaseURL)
		}
		fmt.Printf("📧 If %s has an account, a reset link is on its way.\n", email)
		return nil
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password using a reset token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetToken == "" {
			return errors.New("--token is required")
		}
		pw, err := readNewPassword()
		if err != nil {
			return err
		}
		api, cfg, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := api.ResetPassword(cmd.Context(), resetToken, pw); err != nil {
			return reportErr(err, "resetting your password", cfg.BaseURL)
		}
		fmt.Println("✅ Password updated. Run 'techsite login' to sign in.")
		return nil
	},
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() (string, error) {
	pw, err := terminal.ReadSecret("New password: ")
	if err != nil {
		return "", err
	}
	if len(pw) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	if !terminal.IsInteractive() {
		return pw, nil
	}
	again, err := terminal.ReadSecret("Repeat password: ")
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

func init() {
	passwordForgotCmd.Flags().StringVar(&forgotEmail, "email", "", "Account email")
	passwordResetCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email")
	passwordCmd.AddCommand(passwordForgotCmd, passwordResetCmd)
	rootCmd.AddCommand(passwordCmd)
}
