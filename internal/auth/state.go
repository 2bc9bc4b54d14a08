// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "techsite/web/internal/backend"

// Phase is the manager's lifecycle position.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a read-only snapshot of the session.
// IsAuthenticated is true iff User is non-nil.
type State struct {
	User            *backend.User
	IsAuthenticated bool
	IsLoading       bool
}

// Phase derives the lifecycle phase from the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.IsLoading:
		return PhaseLoading
	default:
		return PhaseUnauthenticated
	}
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func authenticated(u *backend.User) State {
	return State{User: u, IsAuthenticated: true}
}

var (
	loading         = State{IsLoading: true}
	unauthenticated = State{}
)
