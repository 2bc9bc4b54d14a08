// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth is the session manager: the single source of truth for whether
// this client is authenticated, and the only component that schedules or
// cancels token refresh.
//
// The manager cycles between three phases. It starts in Loading, settles into
// Authenticated or Unauthenticated after Load, and moves between the latter two
// on login, logout and scheduled refresh. Every failure is recovered locally by
// falling back to Unauthenticated; nothing here is fatal to the process.
//
// Refresh is proactive: whenever the manager enters Authenticated it arms a
// single one-shot task that fires RefreshLead before the access token expires.
// At most one task is pending at any time, and at most one refresh per session
// is in flight.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"techsite/web/internal/backend"
	apperrors "techsite/web/internal/errors"
	"techsite/web/internal/logging"
	"techsite/web/internal/tokens"
)

// errStale marks a refresh whose session ended while it was in flight.
var errStale = errors.New("session ended during refresh")

// errInFlight marks a refresh skipped because another one is running.
var errInFlight = errors.New("refresh already in flight")

// Config tunes the manager.
type Config struct {
	// RefreshLead is how long before expiry the refresh fires.
	RefreshLead time.Duration
	// RequestTimeout bounds refresh calls made from the scheduler.
	RequestTimeout time.Duration
	// SignInPath is where GoToLogin sends the user.
	SignInPath string
}

func (c Config) withDefaults() Config {
	if c.RefreshLead <= 0 {
		c.RefreshLead = 60 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.SignInPath == "" {
		c.SignInPath = "/sign-in"
	}
	return c
}

// Manager owns the session state.
type Manager struct {
	store  *tokens.Store
	api    backend.API
	sched  Scheduler
	logger *pterm.Logger
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	// gen identifies the current session; it changes whenever a session
	// starts or ends so late results from an older session are discarded.
	gen uint64
	// seq identifies the currently armed task.
	seq         uint64
	task        Task
	nextRefresh time.Time
	refreshing  bool
	inflightGen uint64

	subMu sync.Mutex
	subs  map[chan State]struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler replaces the timer implementation.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) { m.sched = s }
}

// WithLogger sets the logger.
func WithLogger(l *pterm.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithConfig sets tuning values; zero fields take defaults.
func WithConfig(c Config) Option {
	return func(m *Manager) { m.cfg = c }
}

// NewManager returns a manager in the Loading phase. Call Load to settle it.
func NewManager(store *tokens.Store, api backend.API, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		api:    api,
		sched:  DefaultScheduler{},
		logger: logging.Discard(),
		state:  loading,
		subs:   make(map[chan State]struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	m.cfg = m.cfg.withDefaults()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Phase returns the current lifecycle phase.
func (m *Manager) Phase() Phase {
	return m.Snapshot().Phase()
}

// Pending reports whether a refresh task is armed and when it fires.
func (m *Manager) Pending() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextRefresh, m.task != nil
}

// Load derives the session from stored credentials. It always leaves the
// manager Authenticated or Unauthenticated; the returned error explains why a
// stored session was dropped and is informational only.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.stopTaskLocked()
	m.gen++
	gen := m.gen
	m.state = loading
	m.publishLocked()
	m.mu.Unlock()

	access, ok := m.store.AccessToken()
	if !ok {
		m.logger.Debug("no stored session")
		m.settleUnauthenticated(gen, false)
		return nil
	}

	if m.store.IsTokenExpired(access) {
		if _, ok := m.store.RefreshToken(); !ok {
			m.logger.Info("access token expired and no refresh token stored")
			m.settleUnauthenticated(gen, true)
			return nil
		}
		fresh, err := m.refresh(ctx, gen)
		if err != nil {
			if errors.Is(err, errStale) {
				return nil
			}
			m.logger.Warn("refresh during load failed", m.logger.Args("error", logging.Mask(err.Error())))
			m.settleUnauthenticated(gen, true)
			return err
		}
		access = fresh
	}

	user, err := m.api.GetMe(ctx, access)
	if err != nil {
		err = apperrors.Wrap(apperrors.UserFetchFailed, "fetch current user", err)
		m.logger.Warn("current user lookup failed", m.logger.Args("error", logging.Mask(err.Error())))
		m.settleUnauthenticated(gen, true)
		return err
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return nil
	}
	m.state = authenticated(user)
	m.armLocked(access)
	m.publishLocked()
	m.mu.Unlock()

	m.logger.Info("session loaded", m.logger.Args("user", user.Email))
	return nil
}

// Login records an authenticated user whose tokens are already stored and
// arms the refresh task.
func (m *Manager) Login(user backend.User) {
	u := user
	m.mu.Lock()
	m.stopTaskLocked()
	m.gen++
	m.state = authenticated(&u)
	access, _ := m.store.AccessToken()
	m.armLocked(access)
	m.publishLocked()
	m.mu.Unlock()

	m.logger.Info("logged in", m.logger.Args("user", u.Email))
}

// SignIn authenticates against the identity service, stores the returned
// credentials and logs the user in.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*backend.User, error) {
	pair, user, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.SignInFailed, "sign in", err)
	}
	if err := m.store.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, apperrors.Wrap(apperrors.StorageUnavailable, "store credentials", err)
	}
	if user == nil {
		if user, err = m.api.GetMe(ctx, pair.AccessToken); err != nil {
			_ = m.store.ClearTokens()
			return nil, apperrors.Wrap(apperrors.UserFetchFailed, "fetch current user", err)
		}
	}
	m.Login(*user)
	u := *user
	return &u, nil
}

// Logout ends the session. Local state is always cleared; a failing
// server-side logout is logged and not returned. Calling it again is safe.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.stopTaskLocked()
	m.gen++
	m.state = unauthenticated
	m.publishLocked()
	m.mu.Unlock()

	if access, ok := m.store.AccessToken(); ok {
		if err := m.api.Logout(ctx, access); err != nil {
			err = apperrors.Wrap(apperrors.LogoutFailed, "server-side logout", err)
			m.logger.Warn("logout call failed, clearing local session anyway",
				m.logger.Args("error", logging.Mask(err.Error())))
		}
	}
	if err := m.store.ClearTokens(); err != nil {
		m.logger.Error("could not clear stored tokens", m.logger.Args("error", err))
	}
	m.logger.Info("logged out")
	return nil
}

// RefreshUser refetches the profile when the stored session is valid and the
// manager is authenticated. Tokens, the schedule and IsAuthenticated are left
// untouched; failures are logged and ignored.
func (m *Manager) RefreshUser(ctx context.Context) {
	if !m.store.HasValidSession() {
		return
	}
	access, _ := m.store.AccessToken()

	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	user, err := m.api.GetMe(ctx, access)
	if err != nil {
		m.logger.Debug("profile refresh failed", m.logger.Args("error", logging.Mask(err.Error())))
		return
	}

	m.mu.Lock()
	if gen != m.gen || !m.state.IsAuthenticated {
		m.mu.Unlock()
		return
	}
	m.state.User = user
	m.publishLocked()
	m.mu.Unlock()
}

// GoToLogin records which section started the flow and returns the sign-in path.
func (m *Manager) GoToLogin(origin tokens.Origin) (string, error) {
	if err := m.store.SetAuthOrigin(origin); err != nil {
		return "", apperrors.Wrap(apperrors.StorageUnavailable, "store auth origin", err)
	}
	return m.cfg.SignInPath, nil
}

// RedirectURL consumes the stored auth origin and returns its landing path.
// Without a stored origin the public root is returned.
func (m *Manager) RedirectURL() string {
	o, _ := m.store.ConsumeAuthOrigin()
	return o.Path()
}

// Subscribe returns a channel receiving state snapshots after every
// transition. Only the latest snapshot is kept for slow readers. The returned
// function unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	m.subMu.Lock()
	m.subs[ch] = struct{}{}
	m.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			if _, ok := m.subs[ch]; ok {
				delete(m.subs, ch)
				close(ch)
			}
			m.subMu.Unlock()
		})
	}
}

// Close cancels the pending refresh and any request it started, and closes
// subscriber channels.
func (m *Manager) Close() {
	m.mu.Lock()
	m.stopTaskLocked()
	m.mu.Unlock()
	m.cancel()

	m.subMu.Lock()
	for ch := range m.subs {
		delete(m.subs, ch)
		close(ch)
	}
	m.subMu.Unlock()
}

// publishLocked hands the current state to every subscriber. m.mu must be
// held so snapshots go out in transition order; subMu is always taken after
// m.mu and never the other way round.
func (m *Manager) publishLocked() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m.state.clone()
	}
}

// stopTaskLocked cancels the armed task. m.mu must be held.
func (m *Manager) stopTaskLocked() {
	if m.task != nil {
		m.task.Stop()
		m.task = nil
	}
	m.seq++
	m.nextRefresh = time.Time{}
}

// armLocked replaces the pending task with one firing RefreshLead before the
// access token expires. m.mu must be held.
func (m *Manager) armLocked(access string) {
	m.stopTaskLocked()

	remaining := time.Duration(m.store.TokenTimeRemaining(access)) * time.Second
	delay := remaining - m.cfg.RefreshLead
	if delay < 0 {
		delay = 0
	}
	seq, gen := m.seq, m.gen
	m.nextRefresh = m.store.Now().Add(delay)
	m.task = m.sched.After(delay, func() { m.onTimer(seq, gen) })
	m.logger.Debug("refresh scheduled", m.logger.Args("in", delay.String()))
}

func (m *Manager) onTimer(seq, gen uint64) {
	m.mu.Lock()
	if seq != m.seq || gen != m.gen || !m.state.IsAuthenticated {
		m.mu.Unlock()
		return
	}
	m.task = nil
	m.nextRefresh = time.Time{}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(m.ctx, m.cfg.RequestTimeout)
	defer cancel()

	access, err := m.refresh(ctx, gen)
	switch {
	case errors.Is(err, errInFlight):
		m.logger.Debug("scheduled refresh skipped, another is in flight")
	case errors.Is(err, errStale):
		m.logger.Debug("discarding refresh result from ended session")
	case err != nil:
		m.logger.Warn("scheduled refresh failed, session ended", m.logger.Args("error", logging.Mask(err.Error())))
		m.settleUnauthenticated(gen, true)
	default:
		m.mu.Lock()
		if gen == m.gen && m.state.IsAuthenticated {
			m.armLocked(access)
		}
		m.mu.Unlock()
		m.logger.Debug("access token refreshed")
	}
}

// refresh exchanges the stored refresh token. New credentials are stored only
// if gen is still the current session. The in-flight flag is always released.
func (m *Manager) refresh(ctx context.Context, gen uint64) (string, error) {
	m.mu.Lock()
	if m.refreshing && m.inflightGen == gen {
		m.mu.Unlock()
		return "", errInFlight
	}
	m.refreshing, m.inflightGen = true, gen
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.inflightGen == gen {
			m.refreshing = false
		}
		m.mu.Unlock()
	}()

	rt, ok := m.store.RefreshToken()
	if !ok {
		return "", apperrors.New(apperrors.RefreshFailed, "no refresh token stored")
	}
	pair, err := m.api.RefreshToken(ctx, rt)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return "", errStale
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.RefreshFailed, "refresh access token", err)
	}
	if err := m.store.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return "", apperrors.Wrap(apperrors.StorageUnavailable, "store refreshed tokens", err)
	}
	return pair.AccessToken, nil
}

// settleUnauthenticated ends session gen: the task is cancelled, credentials
// are optionally cleared and subscribers are told.
func (m *Manager) settleUnauthenticated(gen uint64, clear bool) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.stopTaskLocked()
	m.gen++
	m.state = unauthenticated
	if clear {
		if err := m.store.ClearTokens(); err != nil {
			m.logger.Error("could not clear stored tokens", m.logger.Args("error", err))
		}
	}
	m.publishLocked()
	m.mu.Unlock()
}
