package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Verify(ctx context.Context) error
	Reset(ctx context.Context) error
	Team(ctx context.Context, role string) error
	Next(ctx context.Context) error
	Members(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, verify, reset, team [role], next, members, exit"
	helpSignedIn  = "Available commands: whoami, verify, logout, reset, team [role], next, members, exit"
)

// runREPL starts a simple read-eval-print loop for the TeamDeck CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
//	help:          show available commands
//	register:      create an account
//	login, logout: sign in or out
//	whoami:        show the signed-in profile
//	verify:        re-check the session with the authority
//	reset:         wipe the saved sign-in and reload
//	team [role]:   show the current member, or jump to a role
//	next:          advance the carousel
//	members:       list the roster
//	exit, quit:    leave the program
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "td %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpSignedIn)
			} else {
				fmt.Fprintln(out, helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "verify":
			cmdErr = a.Verify(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "team":
			cmdErr = a.Team(ctx, strings.Join(args, " "))

		case "next", "n":
			cmdErr = a.Next(ctx)

		case "members", "ls":
			cmdErr = a.Members(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
