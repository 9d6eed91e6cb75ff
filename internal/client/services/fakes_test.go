package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
)

type fakeAuthenticator struct {
	Result *models.LoginResult
	Err    error

	Calls     int
	LastEmail string
	LastPass  string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, email, password string) (*models.LoginResult, error) {
	f.Calls++
	f.LastEmail, f.LastPass = email, password
	return f.Result, f.Err
}

type fakeStore struct {
	mu sync.Mutex

	Token string
	User  *models.User

	LoadTokenErr error
	ClearErr     error
	ClearCalls   int
}

func (f *fakeStore) LoadSession(context.Context) (string, *models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Token == "" || f.User == nil {
		return "", nil, false
	}
	return f.Token, f.User.Clone(), true
}

func (f *fakeStore) LoadToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token, f.LoadTokenErr
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.Token, f.User = "", nil
	return nil
}

type fakeDirectory struct {
	Users     []models.User
	ListErr   error
	Created   *models.User
	CreateErr error

	ListCalls   int
	CreateCalls int
	LastNewUser models.NewUser
}

func (f *fakeDirectory) ListUsers(context.Context) ([]models.User, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Users, nil
}

func (f *fakeDirectory) RegisterPrivilegedUser(_ context.Context, nu models.NewUser) (*models.User, error) {
	f.CreateCalls++
	f.LastNewUser = nu
	return f.Created, f.CreateErr
}

func user(id, email string, role models.Role) *models.User {
	return &models.User{ID: id, Email: email, Role: role}
}
