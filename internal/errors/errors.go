// Package errors defines typed errors with categories for user-friendly reporting.
// Session failures are all recoverable: callers inspect the Kind to decide
// whether to fall back to an unauthenticated state or to tell the user why.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// MalformedCredential indicates a token that could not be decoded.
	MalformedCredential Kind = "malformed_credential"
	// RefreshFailed indicates the refresh token was rejected or the call failed.
	RefreshFailed Kind = "refresh_failed"
	// UserFetchFailed indicates the current-user lookup failed.
	UserFetchFailed Kind = "user_fetch_failed"
	// LogoutFailed indicates the server-side logout call failed.
	LogoutFailed Kind = "logout_failed"
	// SignInFailed indicates the identity service rejected the credentials.
	SignInFailed Kind = "sign_in_failed"
	// StorageUnavailable indicates the secret store could not be opened or written.
	StorageUnavailable Kind = "storage_unavailable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "".
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
