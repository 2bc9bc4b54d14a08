// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"

	"techsite/web/internal/keychain"
)

// Epoch is a fixed clock origin for tests.
var Epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// JWT issues an HS256 token expiring at exp.
func JWT(exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

// JWTWithoutExp issues a well-formed token that carries no exp claim.
func JWTWithoutExp() string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

// Keychain returns an in-memory keychain manager.
func Keychain() *keychain.Manager {
	return keychain.NewManager(keyring.NewArrayKeyring(nil))
}

// Clock is a settable time source.
type Clock struct{ T time.Time }

func (c *Clock) Now() time.Time          { return c.T }
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
