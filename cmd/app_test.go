package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"techsite/web/internal/auth"
	"techsite/web/internal/backend"
	"techsite/web/internal/config"
	"techsite/web/internal/logging"
	"techsite/web/internal/testutil"
	"techsite/web/internal/tokens"
)

var ada = &backend.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

// testApp is an app wired to an in-memory keyring, a mocked identity service
// and a scheduler that only fires on demand.
type testApp struct {
	*app
	clk   *testutil.Clock
	api   *testutil.MockAPI
	sched *testutil.FakeScheduler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{
		clk:   &testutil.Clock{T: testutil.Epoch},
		api:   &testutil.MockAPI{},
		sched: &testutil.FakeScheduler{},
	}
	store := tokens.NewStore(testutil.Keychain(), tokens.WithClock(ta.clk.Now))
	mgr := auth.NewManager(store, ta.api, auth.WithScheduler(ta.sched))
	ta.app = &app{
		cfg:    config.Config{BaseURL: "https://id.example.com"},
		logger: logging.Discard(),
		store:  store,
		api:    ta.api,
		mgr:    mgr,
	}
	t.Cleanup(ta.Close)
	return ta
}

// token returns a JWT expiring in d from the test clock.
func (ta *testApp) token(d time.Duration) string {
	return testutil.JWT(ta.clk.T.Add(d))
}

func (ta *testApp) seed(t *testing.T, access, refresh string) {
	t.Helper()
	require.NoError(t, ta.store.SetTokens(access, refresh))
}

func (ta *testApp) requireCleared(t *testing.T) {
	t.Helper()
	_, ok := ta.store.AccessToken()
	require.False(t, ok, "access token should be cleared")
	_, ok = ta.store.RefreshToken()
	require.False(t, ok, "refresh token should be cleared")
}
