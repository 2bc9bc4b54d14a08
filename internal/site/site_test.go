package site_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsite/web/internal/guard"
	"techsite/web/internal/logging"
	"techsite/web/internal/site"
	"techsite/web/internal/testutil"
)

func newServer(t *testing.T, dev bool) http.Handler {
	t.Helper()
	clk := &testutil.Clock{T: testutil.Epoch}
	return site.New(site.Options{Dev: dev, Now: clk.Now}).Routes()
}

func do(h http.Handler, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	rec := do(newServer(t, false), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec := httptest.NewRecorder()
	newServer(t, false).ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
}

func TestProtectedPageRedirectsToSignIn(t *testing.T) {
	h := newServer(t, false)

	rec := do(h, http.MethodGet, "/dashboard/reports")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/sign-in", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/account", &http.Cookie{Name: guard.CookieAccessToken, Value: "x"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account")
}

func TestSignedInUserBouncesOffAuthPages(t *testing.T) {
	h := newServer(t, false)

	rec := do(h, http.MethodGet, "/sign-in",
		&http.Cookie{Name: guard.CookieAccessToken, Value: "x"},
		&http.Cookie{Name: guard.CookieAuthOrigin, Value: "infra"})
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/infra", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/sign-in", &http.Cookie{Name: guard.CookieAccessToken, Value: "x"})
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAuthStartSetsOrigin(t *testing.T) {
	rec := do(newServer(t, false), http.MethodGet, "/auth/start?origin=digital")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in", rec.Header().Get("Location"))

	c := findCookie(rec, guard.CookieAuthOrigin)
	require.NotNil(t, c)
	assert.Equal(t, "digital", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestAuthStartUnknownOriginIsPublic(t *testing.T) {
	rec := do(newServer(t, true), http.MethodGet, "/auth/start?origin=marketing")
	c := findCookie(rec, guard.CookieAuthOrigin)
	require.NotNil(t, c)
	assert.Equal(t, "public", c.Value)
	assert.False(t, c.Secure, "dev mode drops Secure")
}

func TestAuthCallback(t *testing.T) {
	h := newServer(t, false)
	token := testutil.JWT(testutil.Epoch.Add(time.Hour))
	target := "/auth/callback?access_token=" + url.QueryEscape(token)

	rec := do(h, http.MethodGet, target, &http.Cookie{Name: guard.CookieAuthOrigin, Value: "infra"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/infra", rec.Header().Get("Location"))

	access := findCookie(rec, guard.CookieAccessToken)
	require.NotNil(t, access)
	assert.Equal(t, token, access.Value)
	assert.Equal(t, 3600, access.MaxAge)

	origin := findCookie(rec, guard.CookieAuthOrigin)
	require.NotNil(t, origin)
	assert.Equal(t, -1, origin.MaxAge, "origin is consumed")
}

func TestAuthCallbackWithoutOriginGoesHome(t *testing.T) {
	token := testutil.JWT(testutil.Epoch.Add(time.Hour))
	rec := do(newServer(t, false), http.MethodGet, "/auth/callback?access_token="+url.QueryEscape(token))
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAuthCallbackRejectsUnusableTokens(t *testing.T) {
	h := newServer(t, false)
	for _, token := range []string{"", "not-a-jwt", testutil.JWT(testutil.Epoch.Add(-time.Minute))} {
		rec := do(h, http.MethodGet, "/auth/callback?access_token="+url.QueryEscape(token))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "token %q", token)
		assert.Nil(t, findCookie(rec, guard.CookieAccessToken))
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	rec := do(newServer(t, false), http.MethodPost, "/auth/logout",
		&http.Cookie{Name: guard.CookieAccessToken, Value: "x"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	for _, name := range []string{guard.CookieAccessToken, guard.CookieAuthOrigin} {
		c := findCookie(rec, name)
		require.NotNil(t, c, name)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := site.RecoveryMiddleware(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := do(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddlewareWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New("info", "json", &buf)
	require.NoError(t, err)

	h := site.RequestIDMiddleware(site.LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))
	do(h, http.MethodGet, "/tech")

	assert.Contains(t, buf.String(), `"path":"/tech"`)
	assert.Contains(t, buf.String(), `"status":202`)
}
