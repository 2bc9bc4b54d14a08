// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "techsite/web/internal/errors"
)

var parser = jwt.NewParser()

// ExpiresAt decodes the exp claim without verifying the signature.
// Tokens are opaque to the client; the identity service remains the verifier.
func ExpiresAt(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, apperrors.New(apperrors.MalformedCredential, "empty token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.MalformedCredential, "decode token", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.MalformedCredential, "decode exp claim", err)
	}
	if exp == nil {
		return time.Time{}, apperrors.New(apperrors.MalformedCredential, "token has no exp claim")
	}
	return exp.Time, nil
}

// Expired reports whether token is expired at now. Malformed tokens are expired.
func Expired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

// Remaining returns whole seconds until expiry, 0 when expired or malformed.
func Remaining(token string, now time.Time) int64 {
	exp, err := ExpiresAt(token)
	if err != nil {
		return 0
	}
	d := exp.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
