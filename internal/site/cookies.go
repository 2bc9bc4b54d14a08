// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package site

import (
	"net/http"
	"time"

	"techsite/web/internal/guard"
)

// originMaxAge bounds how long an unfinished sign-in remembers its origin.
const originMaxAge = 30 * time.Minute

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.dev,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.dev,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Server) setAccessToken(w http.ResponseWriter, token string, ttl time.Duration) {
	s.setCookie(w, guard.CookieAccessToken, token, ttl)
}

func (s *Server) setAuthOrigin(w http.ResponseWriter, origin string) {
	s.setCookie(w, guard.CookieAuthOrigin, origin, originMaxAge)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
