// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tokens is the session token store: durable storage and inspection of
// the access and refresh credentials and of the auth-origin marker.
//
// Reads never fail loudly. A credential that cannot be read or decoded is
// reported as absent or expired so callers fall back to re-authentication.
package tokens

import (
	"errors"
	"time"

	"github.com/pterm/pterm"

	"techsite/web/internal/keychain"
	"techsite/web/internal/logging"
)

// Backend is the persistent string store the Store writes to.
// *keychain.Manager satisfies it.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store persists credentials and the auth-origin marker.
type Store struct {
	be     Backend
	now    func() time.Time
	logger *pterm.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *pterm.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a Store over be.
func NewStore(be Backend, opts ...Option) *Store {
	s := &Store{be: be, now: time.Now, logger: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) SetAccessToken(token string) error {
	return s.be.Set(keychain.KeyAccessToken, token)
}

func (s *Store) SetRefreshToken(token string) error {
	return s.be.Set(keychain.KeyRefreshToken, token)
}

// SetTokens stores a pair. An empty refresh token keeps the current one.
func (s *Store) SetTokens(access, refresh string) error {
	if err := s.SetAccessToken(access); err != nil {
		return err
	}
	if refresh == "" {
		return nil
	}
	return s.SetRefreshToken(refresh)
}

func (s *Store) AccessToken() (string, bool) {
	return s.get(keychain.KeyAccessToken)
}

func (s *Store) RefreshToken() (string, bool) {
	return s.get(keychain.KeyRefreshToken)
}

func (s *Store) get(key string) (string, bool) {
	v, err := s.be.Get(key)
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			s.logger.Warn("token store read failed", s.logger.Args("key", key, "error", err))
		}
		return "", false
	}
	return v, v != ""
}

// IsTokenExpired is true when the token's expiry is at or before now, or when
// the token cannot be decoded.
func (s *Store) IsTokenExpired(token string) bool {
	if _, err := ExpiresAt(token); err != nil {
		s.logger.Debug("treating malformed token as expired", s.logger.Args("error", err))
		return true
	}
	return Expired(token, s.now())
}

// TokenTimeRemaining returns seconds until expiry, 0 if expired or malformed.
func (s *Store) TokenTimeRemaining(token string) int64 {
	return Remaining(token, s.now())
}

// HasValidSession reports whether an unexpired access token is stored.
func (s *Store) HasValidSession() bool {
	tok, ok := s.AccessToken()
	return ok && !s.IsTokenExpired(tok)
}

// ClearTokens removes both credentials. Safe to call repeatedly.
func (s *Store) ClearTokens() error {
	return errors.Join(
		s.be.Delete(keychain.KeyAccessToken),
		s.be.Delete(keychain.KeyRefreshToken),
	)
}

func (s *Store) SetAuthOrigin(o Origin) error {
	return s.be.Set(keychain.KeyAuthOrigin, string(o))
}

// AuthOrigin returns the stored marker. Unknown stored values are reported
// as absent.
func (s *Store) AuthOrigin() (Origin, bool) {
	raw, ok := s.get(keychain.KeyAuthOrigin)
	if !ok {
		return OriginPublic, false
	}
	return ParseOrigin(raw)
}

func (s *Store) RemoveAuthOrigin() error {
	return s.be.Delete(keychain.KeyAuthOrigin)
}

// ConsumeAuthOrigin reads the marker and removes it.
func (s *Store) ConsumeAuthOrigin() (Origin, bool) {
	o, ok := s.AuthOrigin()
	if err := s.RemoveAuthOrigin(); err != nil {
		s.logger.Warn("could not remove auth origin", s.logger.Args("error", err))
	}
	return o, ok
}
