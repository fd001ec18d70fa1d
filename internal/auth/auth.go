// Package auth gates the admin area behind a single pre-shared secret.
//
// The comparison is a plain string equality with no hashing, lockout, or
// timing-safe compare. Known weakness; acceptable for a single-operator
// storefront where the admin area only edits display data.
package auth

import (
	"errors"
	"sync"
)

var (
	// ErrNotConfigured means no admin secret has been setup, so nobody can
	// log in until the operator configures one.
	ErrNotConfigured = errors.New("admin password is not configured")
	// ErrIncorrectPassword means the supplied password did not match.
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Guard is the in-process admin session state: unauthenticated until a
// successful login, reset on process restart (never persisted).
type Guard struct {
	mu            sync.Mutex
	secret        string
	authenticated bool
}

func NewGuard(secret string) *Guard {
	return &Guard{secret: secret}
}

// AttemptLogin moves the guard to authenticated when password matches the
// pre-shared secret. A failed attempt leaves the state unchanged.
func (g *Guard) AttemptLogin(password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.secret == "" {
		return ErrNotConfigured
	}
	if password != g.secret {
		return ErrIncorrectPassword
	}
	g.authenticated = true
	return nil
}

// Logout returns the guard to unauthenticated. Safe to call at any time.
func (g *Guard) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authenticated = false
}

// Authenticated reports whether a login has succeeded this session.
func (g *Guard) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}
