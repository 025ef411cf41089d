package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-todo-client/apiclient"
	"github.com/jrsteele09/go-todo-client/auth"
	"github.com/jrsteele09/go-todo-client/internal/config"
	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/internal/logging"
	"github.com/jrsteele09/go-todo-client/sessions/sqlitestore"
	"github.com/jrsteele09/go-todo-client/todos"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// app holds what every command needs.
type app struct {
	cfg     config.Config
	session *auth.SessionManager
	todos   *todos.Manager
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("stack", string(debug.Stack())).Msgf("Recovered from panic: %v", r)
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		displayAppname("todo")
		fmt.Println(usage)
		return nil
	}

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	l := logging.Stderr(c.GetEnv(), c.GetLogLevel())

	store, err := sqlitestore.Open(c.GetDatabasePath(), sqlitestore.WithSealKey(c.GetStorageKey()), sqlitestore.WithLogger(l))
	if err != nil {
		return fmt.Errorf("sqlitestore.Open: %w", err)
	}
	defer store.Close() //nolint:errcheck

	api, err := apiclient.New(c.GetAPIBaseURL(), apiclient.WithTimeout(c.GetRequestTimeout()), apiclient.WithLogger(l))
	if err != nil {
		return err
	}
	session, err := auth.NewSessionManager(api, store, auth.WithLogger(l))
	if err != nil {
		return err
	}
	todoManager, err := todos.NewManager(api, todos.WithLogger(l))
	if err != nil {
		return err
	}
	defer todoManager.Close()
	session.OnLogout(todoManager.Reset)

	ctx, cancel := context.WithTimeout(context.Background(), 2*c.GetRequestTimeout())
	defer cancel()

	if err := session.LoadSessionFromStorage(ctx); err != nil {
		l.Debug().Err(err).Msg("stored session not restored")
	}
	<-session.Ready()

	a := &app{cfg: c, session: session, todos: todoManager}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, see \"todo help\"", args[0])
	}
	if cmd.needsSession {
		if err := session.Require(); err != nil {
			return fmt.Errorf("%w: run \"todo login\" first", err)
		}
	}
	return cmd.run(ctx, a, args[1:])
}

func printError(err error) {
	if fields := apperrors.Fields(err); len(fields) > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Please fix the following:"))
		for _, line := range fieldLines(fields) {
			fmt.Fprintln(os.Stderr, "  "+line)
		}
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render(userMessage(err)))
}

// userMessage maps the error taxonomy to what a user should read.
func userMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid email or password."
	case apperrors.Is(err, apperrors.ErrAuthentication):
		return "You are not logged in or your session has expired. Run \"todo login\"."
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "That todo no longer exists. Run \"todo list\" to refresh."
	case apperrors.Is(err, apperrors.ErrTransport):
		return "Could not reach the todo service: " + err.Error()
	default:
		return err.Error()
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
