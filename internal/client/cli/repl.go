package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isOwner() bool
	LoginCmd(ctx context.Context) error
	Dashboard(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Users(ctx context.Context) error
	CreateAdmin(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands with readLine and dispatches them to a until the
// input ends or the user types "exit" or "quit". Owner-only commands are
// unknown to everyone else. Handler errors are printed and the loop goes on;
// an exhausted input ends it.
func runREPL(ctx context.Context, a execIface, statusFn func() string, readLine func() (string, error), out io.Writer) error {
	for {
		fmt.Fprintf(out, "sc (%s)> ", statusFn())
		line, err := readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch {
		case cmd == "help":
			fmt.Fprintln(out, "Available commands: "+strings.Join(available(a), ", "))

		case cmd == "exit" || cmd == "quit":
			fmt.Fprintln(out, "Bye!")
			return nil

		case cmd == "login":
			cmdErr = a.LoginCmd(ctx)

		case !a.isLoggedIn() && isSignedInCommand(cmd):
			fmt.Fprintln(out, "Please log in first")

		case cmd == "dashboard":
			cmdErr = a.Dashboard(ctx)

		case cmd == "whoami":
			cmdErr = a.WhoAmI(ctx)

		case cmd == "logout":
			cmdErr = a.Logout(ctx)

		case cmd == "users" && a.isOwner():
			cmdErr = a.Users(ctx)

		case cmd == "create-admin" && a.isOwner():
			cmdErr = a.CreateAdmin(ctx)

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			if errors.Is(cmdErr, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}

func isSignedInCommand(cmd string) bool {
	switch cmd {
	case "dashboard", "whoami", "logout":
		return true
	}
	return false
}

func available(a execIface) []string {
	switch {
	case a.isOwner():
		return []string{"dashboard", "whoami", "users", "create-admin", "logout", "exit"}
	case a.isLoggedIn():
		return []string{"dashboard", "whoami", "logout", "exit"}
	default:
		return []string{"login", "exit"}
	}
}
