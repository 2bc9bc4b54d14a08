package manifest

import (
	"context"
	"fmt"
	"strings"
)

// Source says where endpoints come from.
type Source struct {
	// BaseURL of the identity service.
	BaseURL string
	// URL of a remote manifest; empty means built-in defaults only.
	URL string
	// PublicKeyPEM verifies the remote manifest signature when set.
	PublicKeyPEM string
	// Overrides are applied last.
	Overrides HTTPEndpoints
}

// Resolve returns the effective manifest, using the RAM cache when a remote
// manifest was already fetched in this process.
func Resolve(ctx context.Context, src Source) (*Manifest, error) {
	m := &Manifest{Version: 1, BaseURL: src.BaseURL, HTTP: Defaults()}

	if src.URL != "" {
		remote := GetCached()
		if remote == nil {
			var err error
			remote, err = fetchFromServer(ctx, src.URL, src.PublicKeyPEM)
			if err != nil {
				return nil, fmt.Errorf("identity manifest unavailable: %w", err)
			}
			SetCached(remote)
		}
		m.Version = remote.Version
		if remote.BaseURL != "" {
			m.BaseURL = remote.BaseURL
		}
		m.HTTP = m.HTTP.Overlay(remote.HTTP)
	}

	m.HTTP = m.HTTP.Overlay(src.Overrides)
	m.BaseURL = strings.TrimRight(m.BaseURL, "/")
	if m.BaseURL == "" {
		return nil, fmt.Errorf("identity service base URL is not configured")
	}
	return m, nil
}
