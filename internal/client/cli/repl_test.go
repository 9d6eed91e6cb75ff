package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	owner    bool

	calls []string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isOwner() bool    { return f.owner }
func (f *fakeExec) LoginCmd(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return f.err
}
func (f *fakeExec) Dashboard(context.Context) error {
	f.calls = append(f.calls, "dashboard")
	return f.err
}
func (f *fakeExec) WhoAmI(context.Context) error { f.calls = append(f.calls, "whoami"); return f.err }
func (f *fakeExec) Users(context.Context) error  { f.calls = append(f.calls, "users"); return f.err }
func (f *fakeExec) CreateAdmin(context.Context) error {
	f.calls = append(f.calls, "create-admin")
	return f.err
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn, f.owner = false, false
	return f.err
}

func lines(input ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(input) {
			return "", io.EOF
		}
		i++
		return input[i-1], nil
	}
}

func TestRunREPL_SignedOutGating(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	err := runREPL(context.Background(), exec, func() string { return "guest" },
		lines("help", "dashboard", "whoami", "users", "create-admin", "logout", "", "exit", "help"), &out)
	require.NoError(t, err)

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.String(), "Available commands: login, exit")
	assert.Equal(t, 3, strings.Count(out.String(), "Please log in first"))
	assert.Contains(t, out.String(), "Unknown command: users")
	assert.Contains(t, out.String(), "Unknown command: create-admin")
	assert.Contains(t, out.String(), "Bye!")
	assert.Equal(t, 1, strings.Count(out.String(), "Available commands"), "nothing runs after exit")
}

func TestRunREPL_SignedInWithoutOwner(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer

	err := runREPL(context.Background(), exec, func() string { return "a@x" },
		lines("help", "dashboard", "whoami", "users", "create-admin", "logout", "whoami"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"dashboard", "whoami", "logout"}, exec.calls)
	assert.Contains(t, out.String(), "Available commands: dashboard, whoami, logout, exit")
	assert.Contains(t, out.String(), "Unknown command: users")
	assert.Contains(t, out.String(), "Please log in first")
	assert.Contains(t, out.String(), "sc (a@x)> ")
}

func TestRunREPL_OwnerCommands(t *testing.T) {
	exec := &fakeExec{loggedIn: true, owner: true}
	var out bytes.Buffer

	err := runREPL(context.Background(), exec, func() string { return "o" },
		lines("help", "users", "create-admin", "quit"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "create-admin"}, exec.calls)
	assert.Contains(t, out.String(), "users, create-admin")
}

func TestRunREPL_LoginThenCommands(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	err := runREPL(context.Background(), exec, func() string { return "s" },
		lines("login", "whoami", "foobar", "exit"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"login", "whoami"}, exec.calls)
	assert.Contains(t, out.String(), "Unknown command: foobar")
}

func TestRunREPL_HandlerErrors(t *testing.T) {
	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	var out bytes.Buffer

	err := runREPL(context.Background(), exec, func() string { return "s" }, lines("whoami", "dashboard"), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "Error: boom"))

	exec = &fakeExec{loggedIn: true, err: io.EOF}
	out.Reset()
	err = runREPL(context.Background(), exec, func() string { return "s" }, lines("whoami", "dashboard"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"whoami"}, exec.calls)
}

func TestRunREPL_ReadError(t *testing.T) {
	boom := errors.New("read failed")
	err := runREPL(context.Background(), &fakeExec{}, func() string { return "" },
		func() (string, error) { return "", boom }, io.Discard)
	assert.ErrorIs(t, err, boom)
}
