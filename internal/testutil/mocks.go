package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"techsite/web/internal/backend"
)

// MockAPI is a testify mock of backend.API.
type MockAPI struct {
	mock.Mock
}

var _ backend.API = (*MockAPI)(nil)

func (m *MockAPI) Login(ctx context.Context, email, password string) (backend.TokenPair, *backend.User, error) {
	args := m.Called(ctx, email, password)
	var u *backend.User
	if v := args.Get(1); v != nil {
		u = v.(*backend.User)
	}
	return args.Get(0).(backend.TokenPair), u, args.Error(2)
}

func (m *MockAPI) Logout(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockAPI) RefreshToken(ctx context.Context, refreshToken string) (backend.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(backend.TokenPair), args.Error(1)
}

func (m *MockAPI) GetMe(ctx context.Context, accessToken string) (*backend.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.User), args.Error(1)
}

func (m *MockAPI) SignUp(ctx context.Context, req backend.SignUpRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAPI) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAPI) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.Called(ctx, resetToken, newPassword).Error(0)
}

func (m *MockAPI) VerifyEmail(ctx context.Context, verificationToken string) (*backend.User, error) {
	args := m.Called(ctx, verificationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.User), args.Error(1)
}

func (m *MockAPI) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAPI) GetVersion(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// FakeTask is a task recorded by FakeScheduler.
type FakeTask struct {
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *FakeTask) Stop() { t.stopped = true }

// FakeScheduler records armed tasks and fires them on demand.
type FakeScheduler struct {
	mu    sync.Mutex
	Tasks []*FakeTask
}

// After satisfies auth.Scheduler.
func (s *FakeScheduler) After(d time.Duration, fn func()) interface{ Stop() } {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &FakeTask{Delay: d, fn: fn}
	s.Tasks = append(s.Tasks, t)
	return &lockedTask{s: s, t: t}
}

type lockedTask struct {
	s *FakeScheduler
	t *FakeTask
}

func (l *lockedTask) Stop() {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.t.Stop()
}

// Pending returns tasks that are neither stopped nor fired.
func (s *FakeScheduler) Pending() []*FakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*FakeTask
	for _, t := range s.Tasks {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Last returns the most recently armed task, or nil.
func (s *FakeScheduler) Last() *FakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Tasks) == 0 {
		return nil
	}
	return s.Tasks[len(s.Tasks)-1]
}

// Fire runs t synchronously, even if it was stopped, to simulate a timer that
// raced with cancellation.
func (s *FakeScheduler) Fire(t *FakeTask) {
	s.mu.Lock()
	t.fired = true
	fn := t.fn
	s.mu.Unlock()
	fn()
}
