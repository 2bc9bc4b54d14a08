// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the identity service's endpoint layout. Built-in
// defaults cover the standard deployment; an optional signed manifest served
// by the identity service can override individual paths.
package manifest

// Manifest represents the endpoint configuration served by the identity service.
type Manifest struct {
	Version int           `json:"version"`
	BaseURL string        `json:"base_url"`
	HTTP    HTTPEndpoints `json:"http"`
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	Login              string `json:"login"`               // e.g., "/api/auth/login"
	Logout             string `json:"logout"`              // e.g., "/api/auth/logout"
	Refresh            string `json:"token_refresh"`       // e.g., "/api/auth/refresh"
	Me                 string `json:"account_whoami"`      // e.g., "/api/auth/me"
	SignUp             string `json:"register"`            // e.g., "/api/auth/register"
	ForgotPassword     string `json:"forgot_password"`     // e.g., "/api/auth/forgot-password"
	ResetPassword      string `json:"reset_password"`      // e.g., "/api/auth/reset-password"
	VerifyEmail        string `json:"verify_email"`        // e.g., "/api/auth/verify-email"
	ResendVerification string `json:"resend_verification"` // e.g., "/api/auth/resend-verification"
	Version            string `json:"version"`             // e.g., "/api/version"
}

// Defaults returns the standard endpoint layout.
func Defaults() HTTPEndpoints {
	return HTTPEndpoints{
		Login:              "/api/auth/login",
		Logout:             "/api/auth/logout",
		Refresh:            "/api/auth/refresh",
		Me:                 "/api/auth/me",
		SignUp:             "/api/auth/register",
		ForgotPassword:     "/api/auth/forgot-password",
		ResetPassword:      "/api/auth/reset-password",
		VerifyEmail:        "/api/auth/verify-email",
		ResendVerification: "/api/auth/resend-verification",
		Version:            "/api/version",
	}
}

// Overlay returns e with every non-empty field of o applied on top.
func (e HTTPEndpoints) Overlay(o HTTPEndpoints) HTTPEndpoints {
	pick := func(cur, next string) string {
		if next != "" {
			return next
		}
		return cur
	}
	return HTTPEndpoints{
		Login:              pick(e.Login, o.Login),
		Logout:             pick(e.Logout, o.Logout),
		Refresh:            pick(e.Refresh, o.Refresh),
		Me:                 pick(e.Me, o.Me),
		SignUp:             pick(e.SignUp, o.SignUp),
		ForgotPassword:     pick(e.ForgotPassword, o.ForgotPassword),
		ResetPassword:      pick(e.ResetPassword, o.ResetPassword),
		VerifyEmail:        pick(e.VerifyEmail, o.VerifyEmail),
		ResendVerification: pick(e.ResendVerification, o.ResendVerification),
		Version:            pick(e.Version, o.Version),
	}
}
