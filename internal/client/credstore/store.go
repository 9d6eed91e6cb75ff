// Package credstore persists the credential record (bearer token plus the
// cached user) so a session survives a restart of the client.
//
// The record is written and cleared as a unit. Readers that find only half of
// it, or a user payload that no longer parses, treat the record as absent:
// a damaged cache means "log in again", never a failure.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolconnect/internal/common"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

var (
	// ErrMalformedPersistedState is logged when the stored user cannot be
	// used. It is never returned to callers.
	ErrMalformedPersistedState = errors.New("malformed persisted state")

	// ErrIncompleteRecord is returned by Save when the token or user is missing.
	ErrIncompleteRecord = errors.New("credential record requires both token and user")
)

// Store reads and writes the credential record in a metadata.Repository.
type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func New(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "credstore")}
}

// Save persists token and user in one write.
func (s *Store) Save(ctx context.Context, token string, user *models.User) error {
	if token == "" || user == nil {
		return ErrIncompleteRecord
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := s.repo.SetMany(ctx, map[string][]byte{
		common.TokenKey: []byte(token),
		common.UserKey:  payload,
	}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear removes both fields. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.DeleteMany(ctx, common.TokenKey, common.UserKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// LoadToken returns the stored token, "" when there is none.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(v), nil
}

// LoadUser returns the stored user, nil when there is none or when the
// stored payload is unusable.
func (s *Store) LoadUser(ctx context.Context) (*models.User, error) {
	v, err := s.repo.Get(ctx, common.UserKey)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		s.log.Warn(ctx, "discarding persisted user", "error", fmt.Errorf("%w: %v", ErrMalformedPersistedState, err))
		return nil, nil
	}
	if u.Email == "" {
		s.log.Warn(ctx, "discarding persisted user", "error", fmt.Errorf("%w: record has no email", ErrMalformedPersistedState))
		return nil, nil
	}
	return &u, nil
}

// LoadSession returns the full record. ok is false unless both the token and
// a usable user are present; read failures are logged and reported the same
// way.
func (s *Store) LoadSession(ctx context.Context) (token string, user *models.User, ok bool) {
	token, err := s.LoadToken(ctx)
	if err != nil {
		s.log.Error(ctx, "reading persisted session", "error", err)
		return "", nil, false
	}
	user, err = s.LoadUser(ctx)
	if err != nil {
		s.log.Error(ctx, "reading persisted session", "error", err)
		return "", nil, false
	}

	switch {
	case token == "" && user == nil:
		return "", nil, false
	case token == "" || user == nil:
		s.log.Warn(ctx, "ignoring partial credential record", "has_token", token != "", "has_user", user != nil)
		return "", nil, false
	}
	return token, user, true
}
