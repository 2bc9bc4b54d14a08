// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides, per request, whether a page is served or the browser
// is redirected. It looks only at cookie presence; token validity is the
// session manager's concern.
package guard

import (
	"net/http"
	"strings"

	"github.com/pterm/pterm"

	"techsite/web/internal/logging"
	"techsite/web/internal/tokens"
)

// Cookie names shared with the site handlers.
const (
	CookieAccessToken = "access_token"
	CookieAuthOrigin  = "auth_origin"
)

// Action is what the guard does with a request.
type Action int

const (
	Allow Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the outcome of Decide. Location is set only for Redirect.
type Decision struct {
	Action   Action
	Location string
}

// Rules configures which paths are guarded.
type Rules struct {
	SignInPath        string
	ProtectedPrefixes []string
	AuthFlowPrefixes  []string
}

// DefaultRules returns the site's routing rules.
func DefaultRules() Rules {
	return Rules{
		SignInPath:        "/sign-in",
		ProtectedPrefixes: []string{"/account", "/dashboard"},
		AuthFlowPrefixes:  []string{"/sign-in", "/sign-up", "/forgot-password"},
	}
}

// Decide applies the rules to a path and the request cookies. Protected
// paths need an access_token cookie; auth-flow pages bounce a signed-in
// browser back to the section it came from.
func (r Rules) Decide(path string, cookies []*http.Cookie) Decision {
	hasToken := cookieValue(cookies, CookieAccessToken) != ""

	if !hasToken && matchAny(path, r.ProtectedPrefixes) {
		return Decision{Action: Redirect, Location: r.SignInPath}
	}
	if hasToken && matchAny(path, r.AuthFlowPrefixes) {
		return Decision{Action: Redirect, Location: tokens.RedirectPath(cookieValue(cookies, CookieAuthOrigin))}
	}
	return Decision{Action: Allow}
}

// Middleware enforces the rules with a 307 redirect.
func Middleware(rules Rules, logger *pterm.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			d := rules.Decide(req.URL.Path, req.Cookies())
			if d.Action == Redirect {
				logger.Debug("guard redirect", logger.Args("path", req.URL.Path, "location", d.Location))
				http.Redirect(w, req, d.Location, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// matchAny reports whether path equals a prefix or continues it with a
// new segment.
func matchAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
