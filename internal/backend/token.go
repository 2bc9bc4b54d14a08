// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") {
		if rest := strings.TrimSpace(v[6:]); rest != "" {
			return rest
		}
	}
	return ""
}

// RefreshToken calls POST on the refresh endpoint to get a new access token.
// The service may rotate the refresh token or keep it the same; an empty
// RefreshToken in the result means "keep the current one".
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	resp, err := h.do(ctx, http.MethodPost, h.endpoints.Refresh, "", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return TokenPair{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			return TokenPair{}, fmt.Errorf("refresh token expired or invalid: %w", ErrUnauthorized)
		}
		b, _ := io.ReadAll(resp.Body)
		return TokenPair{}, fmt.Errorf("refresh-token failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TokenPair{}, err
	}
	if env, ok := body.(map[string]any); ok {
		if s, ok := env["success"].(bool); ok && !s {
			msg, _ := env["error"].(string)
			return TokenPair{}, fmt.Errorf("refresh-token rejected: %s", msg)
		}
	}

	var pair TokenPair
	walkJSON(body, &pair.AccessToken, &pair.RefreshToken)
	if pair.AccessToken == "" {
		return TokenPair{}, errors.New("no access_token in response")
	}
	return pair, nil
}

// walkJSON recursively searches a JSON structure for access and refresh tokens.
// It handles various common field naming conventions.
func walkJSON(node any, access *string, refresh *string) {
	if *access != "" && *refresh != "" {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		for k, vv := range v {
			lk := strings.ToLower(strings.ReplaceAll(k, "_", ""))
			if s, ok := vv.(string); ok {
				val := strings.TrimSpace(s)
				if *access == "" {
					if lk == "accesstoken" || lk == "access" || lk == "token" {
						*access = val
					} else if lk == "authorization" {
						if t := parseBearerToken(val); t != "" {
							*access = t
						}
					}
				}
				if *refresh == "" && (lk == "refreshtoken" || lk == "refresh") {
					*refresh = val
				}
			}
			if *access == "" || *refresh == "" {
				walkJSON(vv, access, refresh)
			}
		}
	case []any:
		for _, e := range v {
			if *access == "" || *refresh == "" {
				walkJSON(e, access, refresh)
			}
		}
	}
}

// findUser locates a user object either at "user" or under "data".
func findUser(node any) *User {
	m, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	if u, ok := m["user"]; ok {
		b, err := json.Marshal(u)
		if err == nil {
			var out User
			if json.Unmarshal(b, &out) == nil && out.Email != "" {
				return &out
			}
		}
	}
	if d, ok := m["data"]; ok {
		return findUser(d)
	}
	return nil
}
