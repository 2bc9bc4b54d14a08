// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package site is the browser-facing front end. It serves placeholder
// section pages behind the route guard and the cookie hand-off endpoints
// that start and finish a sign-in.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pterm/pterm"

	"techsite/web/internal/guard"
	"techsite/web/internal/logging"
	"techsite/web/internal/tokens"
)

// Options configures a Server.
type Options struct {
	Rules  guard.Rules
	Logger *pterm.Logger
	// Dev drops the Secure attribute so cookies work over plain http.
	Dev bool
	Now func() time.Time
}

// Server hosts the site routes.
type Server struct {
	rules  guard.Rules
	logger *pterm.Logger
	dev    bool
	now    func() time.Time
}

// New builds a server. Zero options take the site defaults.
func New(opts Options) *Server {
	s := &Server{rules: opts.Rules, logger: opts.Logger, dev: opts.Dev, now: opts.Now}
	if s.rules.SignInPath == "" {
		s.rules = guard.DefaultRules()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

var sections = map[string]string{
	"/":                "Techsite",
	"/tech":            "Tech",
	"/infra":           "Infrastructure",
	"/digital":         "Digital",
	"/account":         "Account",
	"/dashboard":       "Dashboard",
	"/sign-in":         "Sign in",
	"/sign-up":         "Sign up",
	"/forgot-password": "Forgot password",
}

// Routes constructs the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(guard.Middleware(s.rules, s.logger))

	r.Get("/healthz", s.handleHealth)
	for path, title := range sections {
		r.Get(path, s.handlePage(title))
	}
	r.Get("/account/*", s.handlePage(sections["/account"]))
	r.Get("/dashboard/*", s.handlePage(sections["/dashboard"]))

	r.Get("/auth/start", s.handleAuthStart)
	r.Get("/auth/callback", s.handleAuthCallback)
	r.Post("/auth/logout", s.handleLogout)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("site listening", s.logger.Args("addr", addr, "dev", s.dev))
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("site stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%s\n", title)
	}
}

// handleAuthStart remembers the section that started the sign-in and sends
// the browser to the sign-in page.
func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	origin, ok := tokens.ParseOrigin(r.URL.Query().Get("origin"))
	if !ok && r.URL.Query().Get("origin") != "" {
		s.logger.Debug("unknown origin, using public", s.logger.Args("origin", r.URL.Query().Get("origin")))
	}
	s.setAuthOrigin(w, string(origin))
	http.Redirect(w, r, s.rules.SignInPath, http.StatusSeeOther)
}

// handleAuthCallback receives a freshly issued access token, stores it in a
// cookie living exactly as long as the token, and sends the browser back to
// the section that started the flow.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("access_token")
	if token == "" {
		http.Error(w, "missing access_token", http.StatusBadRequest)
		return
	}
	ttl := time.Duration(tokens.Remaining(token, s.now())) * time.Second
	if ttl <= 0 {
		http.Error(w, "access token is expired or malformed", http.StatusBadRequest)
		return
	}

	s.setAccessToken(w, token, ttl)
	dest := tokens.RedirectPath(cookieValue(r, guard.CookieAuthOrigin))
	s.clearCookie(w, guard.CookieAuthOrigin)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearCookie(w, guard.CookieAccessToken)
	s.clearCookie(w, guard.CookieAuthOrigin)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
