package client

import (
	"context"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
)

// Client is the identity service contract used by the session core.
type Client interface {
	Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error)
	RegisterPrivilegedUser(ctx context.Context, user models.NewUser) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Close() error
}

// CredentialStore is the part of the credential store the client needs:
// reading the bearer token and persisting a fresh login.
type CredentialStore interface {
	LoadToken(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, user *models.User) error
}
