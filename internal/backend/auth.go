// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Login posts credentials to the login endpoint. The response carries a token
// pair (top-level or under data) and, usually, the user profile.
func (h *HTTP) Login(ctx context.Context, email, password string) (TokenPair, *User, error) {
	resp, err := h.do(ctx, http.MethodPost, h.endpoints.Login, "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return TokenPair{}, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenPair{}, nil, err
	}

	var body any
	_ = json.Unmarshal(raw, &body)
	env, _ := body.(map[string]any)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if msg, ok := env["error"].(string); ok && msg != "" {
			return TokenPair{}, nil, fmt.Errorf("login failed: %s", msg)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return TokenPair{}, nil, fmt.Errorf("login failed: %w", ErrUnauthorized)
		}
		return TokenPair{}, nil, fmt.Errorf("login failed: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if s, ok := env["success"].(bool); ok && !s {
		msg, _ := env["error"].(string)
		return TokenPair{}, nil, fmt.Errorf("login failed: %s", msg)
	}

	var pair TokenPair
	// Check for token in headers first
	if t := parseBearerToken(resp.Header.Get("Authorization")); t != "" {
		pair.AccessToken = t
	}
	walkJSON(body, &pair.AccessToken, &pair.RefreshToken)
	if pair.AccessToken == "" {
		return TokenPair{}, nil, errors.New("login response carried no access token")
	}
	return pair, findUser(body), nil
}

// Logout calls the logout endpoint with the access token. A 401 means the
// session is already gone and is not reported as an error.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	resp, err := h.do(ctx, http.MethodPost, h.endpoints.Logout, accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusUnauthorized:
		return nil
	}
	b, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("logout failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// SignUp registers a new account. The service sends a verification email.
func (h *HTTP) SignUp(ctx context.Context, req SignUpRequest) error {
	return h.callEnvelope(ctx, "sign-up", http.MethodPost, h.endpoints.SignUp, "", req, nil)
}

// ForgotPassword asks the service to email a reset link.
func (h *HTTP) ForgotPassword(ctx context.Context, email string) error {
	return h.callEnvelope(ctx, "forgot-password", http.MethodPost, h.endpoints.ForgotPassword, "",
		map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using the token from the reset email.
func (h *HTTP) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return h.callEnvelope(ctx, "reset-password", http.MethodPost, h.endpoints.ResetPassword, "",
		map[string]string{"token": resetToken, "password": newPassword}, nil)
}

// VerifyEmail confirms an address with the token from the verification email.
func (h *HTTP) VerifyEmail(ctx context.Context, verificationToken string) (*User, error) {
	var u User
	err := h.callEnvelope(ctx, "verify-email", http.MethodPost, h.endpoints.VerifyEmail, "",
		map[string]string{"token": verificationToken}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ResendVerification asks for a fresh verification email.
func (h *HTTP) ResendVerification(ctx context.Context, email string) error {
	return h.callEnvelope(ctx, "resend-verification", http.MethodPost, h.endpoints.ResendVerification, "",
		map[string]string{"email": email}, nil)
}
