// Package services holds the client-side application services: the session
// that owns the signed-in user, and the administration operations gated on
// the elevated-owner role.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

// ErrIncompleteLogin is returned when the service accepted the credentials
// but sent no user back.
var ErrIncompleteLogin = errors.New("login response carried no user")

// Authenticator is the part of the identity client the session needs.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error)
}

// CredentialStore is the part of the credential store the session needs.
type CredentialStore interface {
	LoadSession(ctx context.Context) (token string, user *models.User, ok bool)
	LoadToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// State is a snapshot of the session.
type State struct {
	User    *models.User
	Loading bool
}

// Session owns the signed-in user for one application run. It starts in the
// loading state until Restore has run.
type Session struct {
	auth  Authenticator
	store CredentialStore
	log   logging.Logger

	mu      sync.RWMutex
	user    *models.User
	loading bool
}

func NewSession(auth Authenticator, store CredentialStore, log logging.Logger) *Session {
	return &Session{
		auth:    auth,
		store:   store,
		log:     log.With("component", "session"),
		loading: true,
	}
}

// Restore adopts a previously persisted session, if a complete one exists.
// The token is trusted as is; it is only checked when an authorized call is
// rejected. Restore never fails and always ends the loading state.
func (s *Session) Restore(ctx context.Context) {
	_, user, ok := s.store.LoadSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.user = user.Clone()
		s.log.Info(ctx, "session restored", "email", user.Email, "role", string(user.Role))
	}
	s.loading = false
}

// Login authenticates and, on success, makes the returned user current.
// Client errors are returned unmodified and leave the session as it was.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.log.Info(ctx, "login rejected", "email", email, "error", err)
		return err
	}
	if res == nil || res.User == nil {
		s.log.Warn(ctx, "login response without user", "email", email)
		return ErrIncompleteLogin
	}

	s.mu.Lock()
	s.user = res.User.Clone()
	s.loading = false
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "email", res.User.Email, "role", string(res.User.Role))
	return nil
}

// Logout forgets the persisted credentials and the current user. A failure
// to clear the store is logged; the in-memory session is cleared regardless.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear stored credentials", "error", err)
	}

	s.mu.Lock()
	had := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if had {
		s.log.Info(ctx, "logged out")
	}
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user.Clone(), Loading: s.loading}
}

// TokenExpiresAt reports when the stored token expires, if it says so.
func (s *Session) TokenExpiresAt(ctx context.Context) (time.Time, bool) {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read stored token", "error", err)
		return time.Time{}, false
	}
	return client.TokenExpiry(token)
}
