// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	ClearCache()
	m, err := Resolve(context.Background(), Source{
		BaseURL:   "https://id.example.com/",
		Overrides: HTTPEndpoints{Me: "/v2/me"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://id.example.com", m.BaseURL)
	assert.Equal(t, "/v2/me", m.HTTP.Me)
	assert.Equal(t, "/api/auth/refresh", m.HTTP.Refresh)
}

func TestResolveRequiresBaseURL(t *testing.T) {
	ClearCache()
	_, err := Resolve(context.Background(), Source{})
	assert.Error(t, err)
}

func signedServer(t *testing.T, body string, sign bool) (*httptest.Server, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pub := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	hash := sha256.Sum256([]byte(body))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sign {
			w.Header().Set("X-Manifest-Signature", base64.StdEncoding.EncodeToString(sig))
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, pub
}

func TestResolveRemoteSigned(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)
	body := `{"version":3,"base_url":"https://auth.example.com","http":{"token_refresh":"/oauth/refresh"}}`
	srv, pub := signedServer(t, body, true)

	m, err := Resolve(context.Background(), Source{BaseURL: "https://fallback", URL: srv.URL, PublicKeyPEM: pub})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, "https://auth.example.com", m.BaseURL)
	assert.Equal(t, "/oauth/refresh", m.HTTP.Refresh)
	assert.Equal(t, "/api/auth/login", m.HTTP.Login)
	assert.NotNil(t, GetCached())
}

func TestResolveRejectsUnsignedWhenKeyConfigured(t *testing.T) {
	ClearCache()
	srv, pub := signedServer(t, `{"version":1}`, false)
	_, err := Resolve(context.Background(), Source{BaseURL: "https://x", URL: srv.URL, PublicKeyPEM: pub})
	assert.Error(t, err)
}

func TestResolveRejectsForeignKey(t *testing.T) {
	ClearCache()
	srv, _ := signedServer(t, `{"version":1}`, true)
	_, other := signedServer(t, `{"version":1}`, true)
	_, err := Resolve(context.Background(), Source{BaseURL: "https://x", URL: srv.URL, PublicKeyPEM: other})
	assert.Error(t, err)
}
