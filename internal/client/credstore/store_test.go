package credstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolconnect/internal/common"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

func newSQLiteRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func stores(t *testing.T) map[string]*Store {
	t.Helper()
	return map[string]*Store{
		"sqlite": New(newSQLiteRepo(t), logging.Nop()),
		"memory": New(metadata.NewMemoryRepository(), logging.Nop()),
	}
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	created := time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)
	users := map[string]*models.User{
		"all fields": {
			ID: "42", FirstName: models.StringPtr("Ana"), LastName: models.StringPtr("Ruiz"),
			Email: "ana@example.org", Role: models.RoleOwner, CreatedAt: &created,
		},
		"only required":   {ID: "7", Email: "min@example.org", Role: models.RoleUser},
		"first name only": {ID: "8", FirstName: models.StringPtr("Solo"), Email: "solo@example.org", Role: "custom"},
	}

	for storeName, s := range stores(t) {
		for userName, u := range users {
			t.Run(storeName+"/"+userName, func(t *testing.T) {
				ctx := context.Background()
				require.NoError(t, s.Save(ctx, "tok-"+u.ID, u))

				token, err := s.LoadToken(ctx)
				require.NoError(t, err)
				assert.Equal(t, "tok-"+u.ID, token)

				got, err := s.LoadUser(ctx)
				require.NoError(t, err)
				assert.Empty(t, cmp.Diff(u, got))
			})
		}
	}
}

func TestSave_RejectsIncompleteRecord(t *testing.T) {
	s := New(metadata.NewMemoryRepository(), logging.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "", &models.User{Email: "a@b.c"}), ErrIncompleteRecord)
	assert.ErrorIs(t, s.Save(ctx, "tok", nil), ErrIncompleteRecord)

	_, _, ok := s.LoadSession(ctx)
	assert.False(t, ok)
}

func TestClear_RemovesBothAndIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "tok", &models.User{ID: "1", Email: "a@b.c"}))

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))

			token, err := s.LoadToken(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)

			u, err := s.LoadUser(ctx)
			require.NoError(t, err)
			assert.Nil(t, u)
		})
	}
}

func TestLoadUser_MalformedPayloadIsAbsent(t *testing.T) {
	tests := map[string]string{
		"invalid json":    `{"id": "1", "email":`,
		"wrong shape":     `["not", "a", "user"]`,
		"old shape":       `{"id":"1","rol":"admin"}`,
		"bad timestamp":   `{"id":"1","email":"a@b.c","created_at":"yesterday"}`,
		"plain text blob": `hello`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			repo := metadata.NewMemoryRepository()
			ctx := context.Background()
			require.NoError(t, repo.SetMany(ctx, map[string][]byte{
				common.TokenKey: []byte("tok"),
				common.UserKey:  []byte(payload),
			}))

			s := New(repo, logging.Nop())
			u, err := s.LoadUser(ctx)
			require.NoError(t, err)
			assert.Nil(t, u)

			_, _, ok := s.LoadSession(ctx)
			assert.False(t, ok)
		})
	}
}

func TestLoadSession_PartialRecordIsNoSession(t *testing.T) {
	ctx := context.Background()

	tokenOnly := metadata.NewMemoryRepository()
	require.NoError(t, tokenOnly.SetMany(ctx, map[string][]byte{common.TokenKey: []byte("tok")}))

	userOnly := metadata.NewMemoryRepository()
	require.NoError(t, userOnly.SetMany(ctx, map[string][]byte{common.UserKey: []byte(`{"id":"1","email":"a@b.c","rol":"user"}`)}))

	for name, repo := range map[string]*metadata.MemoryRepository{"token only": tokenOnly, "user only": userOnly} {
		t.Run(name, func(t *testing.T) {
			token, user, ok := New(repo, logging.Nop()).LoadSession(ctx)
			assert.False(t, ok)
			assert.Empty(t, token)
			assert.Nil(t, user)
		})
	}
}

func TestLoadSession_Complete(t *testing.T) {
	s := New(metadata.NewMemoryRepository(), logging.Nop())
	ctx := context.Background()
	want := &models.User{ID: "1", Email: "a@b.c", Role: models.RoleAdmin}
	require.NoError(t, s.Save(ctx, "tok", want))

	token, user, ok := s.LoadSession(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", token)
	assert.Equal(t, want, user)
}

type failingRepo struct {
	metadata.Repository
	err error
}

func (f failingRepo) Get(context.Context, string) ([]byte, error)       { return nil, f.err }
func (f failingRepo) SetMany(context.Context, map[string][]byte) error { return f.err }
func (f failingRepo) DeleteMany(context.Context, ...string) error      { return f.err }

func TestStore_MediumErrors(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(failingRepo{err: boom}, logging.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "tok", &models.User{Email: "a@b.c"}), boom)
	assert.ErrorIs(t, s.Clear(ctx), boom)

	_, err := s.LoadToken(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = s.LoadUser(ctx)
	assert.ErrorIs(t, err, boom)

	_, _, ok := s.LoadSession(ctx)
	assert.False(t, ok, "read failures degrade to no session")
}
