package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/client/roles"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

var (
	ErrForbidden      = errors.New("operation requires the elevated-owner role")
	ErrInvalidNewUser = errors.New("invalid new user")
)

// Directory is the part of the identity client used by administration.
type Directory interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	RegisterPrivilegedUser(ctx context.Context, user models.NewUser) (*models.User, error)
}

// AdminService exposes the privileged views. Every operation is refused
// unless the session user is the elevated owner.
type AdminService struct {
	dir     Directory
	session *Session
	log     logging.Logger
}

func NewAdminService(dir Directory, session *Session, log logging.Logger) *AdminService {
	return &AdminService{dir: dir, session: session, log: log.With("component", "admin")}
}

// Allowed reports whether the current user may use the administration views.
func (a *AdminService) Allowed() bool {
	return roles.IsElevatedOwner(a.session.User())
}

// ListUsers returns the user directory ordered by role priority, highest
// first. Users of equal priority keep the service's order.
func (a *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	if !a.Allowed() {
		return nil, ErrForbidden
	}

	users, err := a.dir.ListUsers(ctx)
	if err != nil {
		a.checkUnauthorized(ctx, err)
		return nil, err
	}
	return roles.SortByPriorityDescending(users), nil
}

// CreateUser registers a new administrator or standard user. The current
// session is not affected.
func (a *AdminService) CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	if !a.Allowed() {
		return nil, ErrForbidden
	}
	if err := nu.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNewUser, err)
	}

	created, err := a.dir.RegisterPrivilegedUser(ctx, nu)
	if err != nil {
		a.checkUnauthorized(ctx, err)
		return nil, err
	}

	a.log.Info(ctx, "user created", "email", created.Email, "role", string(created.Role))
	return created, nil
}

// checkUnauthorized ends the session when the service no longer accepts the
// stored token.
func (a *AdminService) checkUnauthorized(ctx context.Context, err error) {
	if !client.IsUnauthorized(err) {
		return
	}
	a.log.Warn(ctx, "stored token rejected, logging out", "error", err)
	a.session.Logout(ctx)
}
