package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const msgAuthRequired = "Authentication required: run 'login' or 'register'"

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Refresh(ctx context.Context) error
	List(ctx context.Context, page int) error
	More(ctx context.Context) error
	Show(ctx context.Context, id models.ID) error
	Mine(ctx context.Context) error
	UserQuotes(ctx context.Context, userID models.ID) error
	Profile(ctx context.Context, userID models.ID) error
	Users(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id models.ID) error
	Delete(ctx context.Context, id models.ID) error
	React(ctx context.Context, id models.ID, action models.Reaction) error
}

// protected lists the commands that need a signed-in user.
var protected = map[string]bool{
	"editprofile": true,
	"mine":        true,
	"add":         true,
	"edit":        true,
	"delete":      true,
	"like":        true,
	"dislike":     true,
}

// runREPL starts a simple read–eval–print loop for the quotes CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anyone:
//	  - help                   show available commands
//	  - register | login       create an account / authenticate
//	  - logout | whoami        sign out / show the current user
//	  - refresh                re-validate the stored session
//	  - (l)ist [page]          latest quotes
//	  - more                   next page of the current listing
//	  - show <id>              a single quote
//	  - user <id>              quotes by an author
//	  - profile <id>           an author's profile and statistics
//	  - users                  authors directory
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - mine                   my quotes
//	  - add | edit <id> | delete <id>
//	  - like <id> | dislike <id>
//	  - editprofile            change username or email
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for ctx.Err() == nil {
		printFn(fmt.Sprintf("quotes %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			printlnFn(msgAuthRequired)
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a.isLoggedIn()))

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "editprofile":
			cmdErr = a.EditProfile(ctx)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "l", "list":
			page := 1
			if len(args) > 0 {
				n, perr := strconv.Atoi(args[0])
				if perr != nil || n < 1 {
					printlnFn("Usage: list [page]")
					continue
				}
				page = n
			}
			cmdErr = a.List(ctx, page)

		case "more":
			cmdErr = a.More(ctx)

		case "mine":
			cmdErr = a.Mine(ctx)

		case "users":
			cmdErr = a.Users(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "show", "user", "profile", "edit", "delete", "like", "dislike":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			cmdErr = dispatchWithID(ctx, a, cmd, models.ID(args[0]))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(renderError(cmdErr))
		}
	}
}

func dispatchWithID(ctx context.Context, a execIface, cmd string, id models.ID) error {
	switch cmd {
	case "show":
		return a.Show(ctx, id)
	case "user":
		return a.UserQuotes(ctx, id)
	case "profile":
		return a.Profile(ctx, id)
	case "edit":
		return a.Edit(ctx, id)
	case "delete":
		return a.Delete(ctx, id)
	case "like":
		return a.React(ctx, id, models.ReactionLike)
	case "dislike":
		return a.React(ctx, id, models.ReactionDislike)
	}
	return nil
}

func helpText(loggedIn bool) string {
	if loggedIn {
		return "Available commands: (l)ist [page], more, show <id>, mine, user <id>, profile <id>, users, " +
			"add, edit <id>, delete <id>, like <id>, dislike <id>, editprofile, whoami, refresh, logout, exit"
	}
	return "Available commands: register, login, (l)ist [page], more, show <id>, user <id>, profile <id>, users, " +
		"whoami, refresh, exit"
}
