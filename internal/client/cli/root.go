package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipedeck/internal/client/session"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// getStatus builds the prompt decoration: user email plus backend
// reachability.
func (a *App) getStatus() string {
	parts := []string{}
	if s := a.session.Snapshot(); s.Status == session.Authenticated {
		parts = append(parts, s.User.Email)
	}
	if a.probe.Reachable() {
		parts = append(parts, "online")
	} else {
		parts = append(parts, "offline")
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Root runs the command loop until EOF or exit.
func (a *App) Root(ctx context.Context) {
	a.printf("RecipeDeck CLI (type 'help' for commands)\n")

	for {
		a.printf("recipedeck %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				a.printf("Available commands: list, new, edit <n>, delete <n>, submit, cancel, logout, exit\n")
			} else {
				a.printf("Available commands: login, signup, exit\n")
			}

		case "login":
			a.Login(ctx)
		case "signup":
			a.Signup(ctx)
		case "logout":
			a.Logout(ctx)

		case "l", "list":
			a.list(ctx)
		case "new":
			a.newRecipe(ctx)
		case "edit":
			a.editRecipe(ctx, args)
		case "delete":
			a.deleteRecipe(ctx, args)
		case "submit":
			a.submit(ctx)
		case "cancel":
			a.cancel()

		case "exit", "quit":
			a.printf("Bye!\n")
			return

		default:
			a.printf("Unknown command: %s\n", cmd)
		}
	}
}
