package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/client/services"
	"github.com/dmitrijs2005/schoolconnect/internal/common"
)

// LoginCmd shows the login prompt, then the dashboard on success.
func (a *App) LoginCmd(ctx context.Context) error {
	if a.isLoggedIn() {
		a.printf("Already signed in as %s\n", a.session.User().Email)
		return nil
	}
	return a.render(ctx)
}

func (a *App) Dashboard(ctx context.Context) error {
	return a.render(ctx)
}

func (a *App) WhoAmI(context.Context) error {
	u := a.session.User()
	if u == nil {
		a.println("Not signed in")
		return nil
	}
	a.printf("%s <%s> %s\n", u.DisplayName(), u.Email, roleLabel(u.Role))
	return nil
}

// Users prints the user directory, highest role first.
func (a *App) Users(ctx context.Context) error {
	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		a.handleAdminError(ctx, err)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tROLE\tCREATED")
	for i := range users {
		u := &users[i]
		created := "-"
		if u.CreatedAt != nil {
			created = u.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.DisplayName(), u.Email, roleLabel(u.Role), created)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("%d users\n", len(users))
	return nil
}

// CreateAdmin prompts for a new administrator or standard user and
// registers it. The current session stays signed in as before.
func (a *App) CreateAdmin(ctx context.Context) error {
	if !a.admin.Allowed() {
		a.println(services.ErrForbidden.Error())
		return nil
	}

	var nu models.NewUser
	var err error
	if nu.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if nu.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if nu.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	// Only the prompt buffer is wiped; nu.Password keeps its own copy.
	defer common.WipeByteArray(password)
	nu.Password = string(password)

	role, err := getSimpleText(a.reader, "Role (admin/user) [admin]", a.out)
	if err != nil {
		return err
	}
	nu.Role = models.RoleAdmin
	if role != "" {
		nu.Role = models.Role(role)
	}

	created, err := a.admin.CreateUser(ctx, nu)
	if err != nil {
		a.handleAdminError(ctx, err)
		return nil
	}

	a.printf("Created %s (%s)\n", created.Email, roleLabel(created.Role))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	if err := a.guard.Refresh(ctx); err != nil {
		return err
	}
	a.println("Signed out")
	return nil
}

func (a *App) handleAdminError(ctx context.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		a.println("Invalid input:")
		for _, field := range slices.Sorted(maps.Keys(verrs)) {
			a.printf("  %s: %v\n", field, verrs[field])
		}
	case errors.Is(err, services.ErrForbidden):
		a.println(err.Error())
	default:
		a.reportError(ctx, err)
	}

	if client.IsUnauthorized(err) {
		_ = a.guard.Refresh(ctx)
		a.println("Your session has expired, please log in again")
	}
}
