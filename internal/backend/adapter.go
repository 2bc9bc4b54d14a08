// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the identity service: sign-in,
// logout, token refresh, current-user lookup and the password-reset and
// email-verification flows. The package defines the API contract the session
// manager depends on together with an HTTP implementation.
package backend

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when the identity service answers 401.
var ErrUnauthorized = errors.New("unauthorized")

// User is the profile payload returned by the identity service.
type User struct {
	FirstName string `json:"name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
}

// DisplayName returns the best human-readable identifier.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// TokenPair is an access/refresh credential pair. RefreshToken may be empty
// when the service does not rotate it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SignUpRequest carries the registration form.
type SignUpRequest struct {
	FirstName string `json:"name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// API defines identity service operations the session core depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges email and password for a token pair and the user profile.
	Login(ctx context.Context, email, password string) (TokenPair, *User, error)
	// Logout invalidates the server-side session for the access token.
	Logout(ctx context.Context, accessToken string) error
	// RefreshToken exchanges a refresh token for a new pair.
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error)
	// GetMe returns the profile of the access token's owner.
	GetMe(ctx context.Context, accessToken string) (*User, error)

	SignUp(ctx context.Context, req SignUpRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	VerifyEmail(ctx context.Context, verificationToken string) (*User, error)
	ResendVerification(ctx context.Context, email string) error

	GetVersion(ctx context.Context) (string, error)
}
