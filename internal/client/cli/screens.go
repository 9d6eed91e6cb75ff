package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/client/roles"
	"github.com/dmitrijs2005/schoolconnect/internal/common"
)

func (a *App) Loading(context.Context) error {
	a.println("Restoring session...")
	return nil
}

// Login prompts for credentials. A rejected login is reported and leaves the
// user signed out; only input errors are returned.
func (a *App) Login(ctx context.Context, onSuccess func(context.Context) error) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	// Only the prompt buffer is wiped; the string handed to Login is not.
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.reportError(ctx, err)
		return nil
	}

	a.printf("Signed in as %s\n", a.session.User().DisplayName())
	return onSuccess(ctx)
}

// Protected prints the dashboard.
func (a *App) Protected(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		return nil
	}

	a.println(strings.Repeat("-", 40))
	a.printf("[%s] Welcome, %s\n", u.Initials(), u.DisplayName())
	a.printf("Email: %s\n", u.Email)
	a.printf("Role:  %s\n", roleLabel(u.Role))
	if exp, ok := a.session.TokenExpiresAt(ctx); ok {
		a.printf("Session valid until %s\n", exp.Local().Format(time.DateTime))
	}
	if roles.IsElevatedOwner(u) {
		a.println("Elevated owner: 'users' and 'create-admin' are available")
	}
	a.println(strings.Repeat("-", 40))
	return nil
}

// reportError prints err for the user. Service rejections are shown with
// the service's message as is.
func (a *App) reportError(ctx context.Context, err error) {
	var se *client.ServiceError
	switch {
	case errors.As(err, &se):
		a.println(se.Message)
	case errors.Is(err, client.ErrTransport):
		a.println("Could not reach the identity service, try again later")
	default:
		a.printf("Error: %v\n", err)
	}
	a.log.Debug(ctx, "command failed", "error", err)
}

// roleLabel shows the role as the service sent it, unknown values included.
func roleLabel(r models.Role) string {
	if r == "" {
		return "-"
	}
	return string(r)
}
