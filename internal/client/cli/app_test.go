package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/credstore"
	"github.com/dmitrijs2005/schoolconnect/internal/client/guard"
	"github.com/dmitrijs2005/schoolconnect/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolconnect/internal/client/services"
	"github.com/dmitrijs2005/schoolconnect/internal/identitytest"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

type harness struct {
	app     *App
	out     *bytes.Buffer
	guard   *guard.Guard
	session *services.Session
}

func newHarness(t *testing.T, srv *identitytest.Server, repo metadata.Repository, input ...string) *harness {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	store := credstore.New(repo, logging.Nop())
	c, err := client.NewHTTPClient(srv.URL(), store, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	session := services.NewSession(c, store, logging.Nop())
	admin := services.NewAdminService(c, session, logging.Nop())
	g := guard.New(session)
	out := &bytes.Buffer{}

	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	return &harness{
		app:     NewApp(session, admin, g, logging.Nop(), in, out),
		out:     out,
		guard:   g,
		session: session,
	}
}

func states(g *guard.Guard) []guard.State {
	var out []guard.State
	for _, tr := range g.Transitions() {
		out = append(out, tr.To)
	}
	return out
}

func TestApp_OwnerSession(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Ana", "", "ana@school.test", "pw", identitytest.RoleUser)
	srv.AddUser(t, "Owen", "Root", "owner@school.test", "s3cret", identitytest.RoleOwner)

	h := newHarness(t, srv, metadata.NewMemoryRepository(),
		"owner@school.test", "s3cret",
		"help",
		"create-admin", "Bea", "Diaz", "bea@school.test", "pw2", "",
		"users",
		"logout",
		"whoami",
		"exit",
	)

	require.NoError(t, h.app.Run(context.Background()))
	out := h.out.String()

	assert.Contains(t, out, "Restoring session...")
	assert.Contains(t, out, "Signed in as Owen Root")
	assert.Contains(t, out, "[OR] Welcome, Owen Root")
	assert.Contains(t, out, "Role:  owen")
	assert.Contains(t, out, "Session valid until")
	assert.Contains(t, out, "users, create-admin")
	assert.Contains(t, out, "Created bea@school.test (admin)")
	assert.Contains(t, out, "3 users")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Bye!")

	owner := strings.Index(out, "owner@school.test  ")
	bea := strings.Index(out, "bea@school.test  ")
	ana := strings.Index(out, "ana@school.test  ")
	require.True(t, owner >= 0 && bea >= 0 && ana >= 0, out)
	assert.Less(t, owner, bea)
	assert.Less(t, bea, ana)

	assert.Equal(t, []guard.State{guard.StateUnauthenticated, guard.StateAuthenticated, guard.StateUnauthenticated}, states(h.guard))
}

func TestApp_RejectedLoginShowsServerMessage(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Ana", "", "ana@school.test", "pw", identitytest.RoleUser)

	h := newHarness(t, srv, metadata.NewMemoryRepository(), "ana@school.test", "wrong", "exit")
	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Credenciales inválidas")
	assert.NotContains(t, h.out.String(), "Welcome, ")
	assert.Equal(t, guard.StateUnauthenticated, h.guard.State())
}

func TestApp_RestoredSessionSkipsLogin(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Ana", "", "ana@school.test", "pw", identitytest.RoleUser)
	repo := metadata.NewMemoryRepository()

	first := newHarness(t, srv, repo, "ana@school.test", "pw", "exit")
	require.NoError(t, first.app.Run(context.Background()))

	h := newHarness(t, srv, repo, "users", "whoami", "exit")
	require.NoError(t, h.app.Run(context.Background()))
	out := h.out.String()

	assert.NotContains(t, out, "Email\n> ")
	assert.Contains(t, out, "Welcome, Ana")
	assert.Contains(t, out, "Unknown command: users")
	assert.Contains(t, out, "Ana <ana@school.test> user")
	assert.Equal(t, []guard.State{guard.StateAuthenticated}, states(h.guard))
}

func TestApp_UnknownRoleShownVerbatim(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Tess", "", "tess@school.test", "pw", "teacher")

	h := newHarness(t, srv, metadata.NewMemoryRepository(), "tess@school.test", "pw", "whoami", "exit")
	require.NoError(t, h.app.Run(context.Background()))
	out := h.out.String()

	assert.Contains(t, out, "Role:  teacher")
	assert.Contains(t, out, "Tess <tess@school.test> teacher")
	assert.NotContains(t, out, "unknown")
	assert.NotContains(t, out, "Elevated owner")
}

func TestApp_RevokedTokenEndsSession(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Owen", "", "owner@school.test", "s3cret", identitytest.RoleOwner)

	h := newHarness(t, srv, metadata.NewMemoryRepository(), "owner@school.test", "s3cret")
	require.NoError(t, h.app.Run(context.Background()))
	require.True(t, h.session.IsAuthenticated())

	srv.RevokeTokens()
	h.out.Reset()
	require.NoError(t, h.app.Users(context.Background()))

	assert.Contains(t, h.out.String(), "Token inválido")
	assert.Contains(t, h.out.String(), "Your session has expired")
	assert.False(t, h.session.IsAuthenticated())
	assert.Equal(t, guard.StateUnauthenticated, h.guard.State())
}

func TestApp_CreateAdminValidation(t *testing.T) {
	srv := identitytest.Start(t)
	srv.AddUser(t, "Owen", "", "owner@school.test", "s3cret", identitytest.RoleOwner)

	h := newHarness(t, srv, metadata.NewMemoryRepository(),
		"owner@school.test", "s3cret",
		"create-admin", "", "Diaz", "not-an-email", "pw", "owen",
		"exit",
	)
	require.NoError(t, h.app.Run(context.Background()))
	out := h.out.String()

	assert.Contains(t, out, "Invalid input:")
	assert.Contains(t, out, "  email: ")
	assert.Contains(t, out, "  nombre: ")
	assert.Contains(t, out, "  rol: ")
	assert.Len(t, srv.Emails(), 1)
}

func TestApp_InputClosedDuringLogin(t *testing.T) {
	srv := identitytest.Start(t)
	h := newHarness(t, srv, metadata.NewMemoryRepository())

	require.NoError(t, h.app.Run(context.Background()))
	assert.False(t, h.session.IsAuthenticated())
}
