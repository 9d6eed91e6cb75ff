package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/schoolconnect/internal/client/guard"
	"github.com/dmitrijs2005/schoolconnect/internal/client/roles"
	"github.com/dmitrijs2005/schoolconnect/internal/client/services"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var _ guard.Screens = (*App)(nil)

type App struct {
	session *services.Session
	admin   *services.AdminService
	guard   *guard.Guard
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(session *services.Session, admin *services.AdminService, g *guard.Guard, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		admin:   admin,
		guard:   g,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run restores the persisted session, renders the first screen and then
// serves commands until the input ends or the user exits.
func (a *App) Run(ctx context.Context) error {
	a.println("Welcome to SchoolConnect (type 'help' for commands)")

	if err := a.guard.Render(ctx, a); err != nil {
		return err
	}
	a.session.Restore(ctx)

	if err := a.render(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	return runREPL(ctx, a, a.status, func() (string, error) { return readLine(a.reader) }, a.out)
}

// render shows the screen for the current state. A successful login from
// the prompt is followed by the dashboard.
func (a *App) render(ctx context.Context) error {
	before := a.guard.State()
	if err := a.guard.Render(ctx, a); err != nil {
		return err
	}
	if before != guard.StateAuthenticated && a.guard.State() == guard.StateAuthenticated {
		return a.guard.Render(ctx, a)
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) isOwner() bool {
	return roles.IsElevatedOwner(a.session.User())
}

func (a *App) status() string {
	u := a.session.User()
	if u == nil {
		return "guest"
	}
	return fmt.Sprintf("%s %s", u.Email, u.Role)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
