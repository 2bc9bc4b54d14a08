// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the structured logger used across techsite together
// with helpers that keep credentials out of log lines and user-facing errors.
//
// Tokens, passwords and cookie values must never reach a log sink unmasked;
// every message derived from an error or a request passes through Mask first.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword = regexp.MustCompile(`(?i)("?password"?\s*[=:]\s*"?)([^\s;,"]+)`)
	reToken    = regexp.MustCompile(`(?i)((?:access_token|refresh_token|token)=|bearer\s+)([A-Za-z0-9._-]+)`)
	reJSONTok  = regexp.MustCompile(`(?i)("(?:access_token|refresh_token|accessToken|refreshToken)"\s*:\s*")([^"]+)`)
	reCookie   = regexp.MustCompile(`(?i)(cookie:\s*)(.+)`)
	reJWT      = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "${1}***")
	out = reToken.ReplaceAllString(out, "${1}***")
	out = reJSONTok.ReplaceAllString(out, "${1}***")
	out = reCookie.ReplaceAllString(out, "${1}***")
	out = reJWT.ReplaceAllString(out, "***")
	for _, k := range []string{"TECHSITE_KEYRING_PASSWORD"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}
