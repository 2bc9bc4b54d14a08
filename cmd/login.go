// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"techsite/web/internal/backend"
	"techsite/web/internal/terminal"
	"techsite/web/internal/tokens"
)

var (
	loginEmail  string
	loginOrigin string
)

// loginCmd signs in with email and password and stores the session in the
// OS keychain. --origin records which section the sign-in started from so
// the post-login redirect can return there.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth", "sign-in"},
	Short:   "Sign in with email and password",
	Long: `The login command signs in to the Techsite identity service and stores the
access and refresh tokens in the OS keychain. If a valid session already exists
it reports the signed-in user instead.

The password is read without echo, or from stdin when it is not a terminal.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		origin, ok := tokens.ParseOrigin(loginOrigin)
		if !ok && loginOrigin != "" {
			return fmt.Errorf("unknown origin %q (want tech, infra, digital or public)", loginOrigin)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return runLogin(ctx, a, os.Stdout, origin, promptCredentials)
	},
}

// credentials supplies the email and password once a sign-in is needed.
type credentials func() (email, password string, err error)

// promptCredentials reads the email from --email or an interactive prompt and
// the password without echo.
func promptCredentials() (string, string, error) {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		var err error
		if email, err = pterm.DefaultInteractiveTextInput.Show("Email"); err != nil {
			return "", "", err
		}
		email = strings.TrimSpace(email)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}
	password, err := terminal.ReadSecret("Password: ")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// runLogin reuses a valid stored session, or records origin and signs in with
// the supplied credentials. The landing path for origin is printed on success.
func runLogin(ctx context.Context, a *app, out io.Writer, origin tokens.Origin, creds credentials) error {
	if err := a.mgr.Load(ctx); err != nil {
		a.logger.Debug("stored session discarded", a.logger.Args("error", err))
	}
	if st := a.mgr.Snapshot(); st.IsAuthenticated {
		fmt.Fprintf(out, "Already logged in as %s\n", st.User.DisplayName())
		return nil
	}

	signInPath, err := a.mgr.GoToLogin(origin)
	if err != nil {
		return err
	}
	a.logger.Debug("sign-in started", a.logger.Args("origin", string(origin), "path", signInPath))

	email, password, err := creds()
	if err != nil {
		return err
	}

	stop := startInlineSpinner(out, "Signing in", spinnerFrames, 120*time.Millisecond)
	user, err := a.mgr.SignIn(ctx, email, password)
	stop()
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return reportErr(err, "signing in", a.cfg.BaseURL)
	}

	fmt.Fprintln(out, loginGreeting(user.DisplayName()))
	fmt.Fprintf(out, "Continue at %s\n", a.mgr.RedirectURL())
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginOrigin, "origin", "", "Section that started the sign-in: tech, infra, digital or public")
	rootCmd.AddCommand(loginCmd)
}
