package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	verifyToken string
	resendEmail string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm your email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyToken == "" {
			return errors.New("--token is required")
		}
		api, cfg, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		user, err := api.VerifyEmail(cmd.Context(), verifyToken)
		if err != nil {
			return reportErr(err, "verifying your email", cfg.BaseURL)
		}
		if user != nil && user.Email != "" {
			fmt.Printf("✅ %s is verified.\n", user.Email)
		} else {
			fmt.Println("✅ Email verified.")
		}
		return nil
	},
}

var verifyResendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Send the verification email again",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(resendEmail)
		if email == "" {
			return errors.New("--email is required")
		}
		api, cfg, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := api.ResendVerification(cmd.Context(), email); err != nil {
			return reportErr(err, "resending the verification email", cfg.BaseURL)
		}
		fmt.Printf("📧 Verification email sent to %s\n", email)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyToken, "token", "", "Verification token from the email")
	verifyResendCmd.Flags().StringVar(&resendEmail, "email", "", "Account email")
	verifyCmd.AddCommand(verifyResendCmd)
	rootCmd.AddCommand(verifyCmd)
}
