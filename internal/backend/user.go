// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// GetMe calls GET on the current-user endpoint with the access token.
// A 401 yields ErrUnauthorized.
func (h *HTTP) GetMe(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := h.callEnvelope(ctx, "get-me", http.MethodGet, h.endpoints.Me, accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
