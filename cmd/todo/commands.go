package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-todo-client/auth"
	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/internal/utils"
	"github.com/jrsteele09/go-todo-client/todos"
	"github.com/jrsteele09/go-todo-client/users"
)

const usage = `usage: todo <command> [flags]

  login    -email E -password P
  signup   -email E -password P -first F -last L
  logout
  whoami
  profile  [-first F] [-last L] [-email E] [-address A] [-phone N] [-birthday YYYY-MM-DD] [-bio B] [-photo FILE]
  passwd   -old P -new P
  list     [-search S] [-today] [-within DAYS] [-done | -open] [-priority extreme,moderate,low]
  add      -title T [-desc D] [-priority P] [-date YYYY-MM-DD]
  edit     ID [-title T] [-desc D] [-priority P] [-date YYYY-MM-DD]
  done     ID
  undo     ID
  rm       ID
  move     FROM TO   (1 based rows as shown by list)`

type command struct {
	needsSession bool
	run          func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":   {run: loginCmd},
	"signup":  {run: signupCmd},
	"logout":  {run: logoutCmd},
	"whoami":  {needsSession: true, run: whoamiCmd},
	"profile": {needsSession: true, run: profileCmd},
	"passwd":  {needsSession: true, run: passwdCmd},
	"list":    {needsSession: true, run: listCmd},
	"add":     {needsSession: true, run: addCmd},
	"edit":    {needsSession: true, run: editCmd},
	"done":    {needsSession: true, run: completeCmd(true)},
	"undo":    {needsSession: true, run: completeCmd(false)},
	"rm":      {needsSession: true, run: removeCmd},
	"move":    {needsSession: true, run: moveCmd},
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func loginCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "")
	password := fs.String("password", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	state, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Logged in as " + state.User.FullName()))
	return nil
}

func signupCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("signup")
	var req auth.SignupRequest
	fs.StringVar(&req.Email, "email", "", "")
	fs.StringVar(&req.Password, "password", "", "")
	fs.StringVar(&req.FirstName, "first", "", "")
	fs.StringVar(&req.LastName, "last", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	state, err := a.session.Signup(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Welcome, " + state.User.FullName()))
	return nil
}

func logoutCmd(_ context.Context, a *app, _ []string) error {
	a.session.Logout()
	fmt.Println(okStyle.Render("Logged out"))
	return nil
}

func whoamiCmd(_ context.Context, a *app, _ []string) error {
	fmt.Println(renderUser(*a.session.State().User))
	return nil
}

func profileCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("profile")
	var changes users.ProfileChanges
	// A flag given as -bio= clears the field; an omitted flag leaves it alone.
	optional := func(name string, dst **string) {
		fs.Func(name, "", func(v string) error { *dst = &v; return nil })
	}
	optional("first", &changes.FirstName)
	optional("last", &changes.LastName)
	optional("email", &changes.Email)
	optional("address", &changes.Address)
	optional("phone", &changes.ContactNumber)
	optional("birthday", &changes.Birthday)
	optional("bio", &changes.Bio)
	photo := fs.String("photo", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *photo != "" {
		f, err := os.Open(*photo)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		changes.Photo = &users.PhotoUpload{
			FileName:    filepath.Base(*photo),
			ContentType: mime.TypeByExtension(filepath.Ext(*photo)),
			Data:        f,
		}
	}
	if changes.IsEmpty() {
		return whoamiCmd(ctx, a, nil)
	}
	state, err := a.session.UpdateProfile(ctx, changes)
	if err != nil {
		return err
	}
	fmt.Println(renderUser(*state.User))
	return nil
}

func passwdCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("passwd")
	oldPassword := fs.String("old", "", "")
	newPassword := fs.String("new", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.session.ChangePassword(ctx, *oldPassword, *newPassword); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Password changed"))
	return nil
}

func listCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list")
	search := fs.String("search", "", "")
	today := fs.Bool("today", false, "")
	within := fs.Int("within", 0, "")
	done := fs.Bool("done", false, "")
	open := fs.Bool("open", false, "")
	priorities := fs.String("priority", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.todos.FetchAll(ctx, *search); err != nil {
		return err
	}
	now := a.todos.Now()
	var preds []todos.Predicate
	if *today {
		preds = append(preds, todos.DueToday(now))
	}
	if *within > 0 {
		preds = append(preds, todos.DueWithin(now, *within))
	}
	if *done != *open {
		preds = append(preds, todos.Completed(*done))
	}
	if *priorities != "" {
		var ps []todos.Priority
		for _, raw := range strings.Split(*priorities, ",") {
			p, err := todos.ParsePriority(raw)
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}
		preds = append(preds, todos.HasPriority(ps...))
	}
	fmt.Println(renderTodos(a.todos.FilterView(preds...)))
	return nil
}

func addCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	var n todos.NewTodo
	fs.StringVar(&n.Title, "title", "", "")
	fs.StringVar(&n.Description, "desc", "", "")
	fs.StringVar(&n.TodoDate, "date", "", "")
	priority := fs.String("priority", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if n.Title == "" && fs.NArg() > 0 {
		n.Title = strings.Join(fs.Args(), " ")
	}
	if *priority != "" {
		p, err := todos.ParsePriority(*priority)
		if err != nil {
			return err
		}
		n.Priority = p
	}
	created, err := a.todos.Create(ctx, n)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Added #%d %s", created.ID, created.Title)))
	return nil
}

func editCmd(ctx context.Context, a *app, args []string) error {
	id, rest, err := idArg(args)
	if err != nil {
		return err
	}
	fs := newFlagSet("edit")
	var patch todos.Patch
	fs.Func("title", "", func(v string) error { patch.Title = &v; return nil })
	fs.Func("desc", "", func(v string) error { patch.Description = &v; return nil })
	fs.Func("date", "", func(v string) error { patch.TodoDate = &v; return nil })
	fs.Func("priority", "", func(v string) error {
		p, err := todos.ParsePriority(v)
		if err != nil {
			return err
		}
		patch.Priority = &p
		return nil
	})
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return apperrors.NewValidationError(apperrors.GeneralField, "Nothing to update.")
	}
	updated, err := a.todos.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Println(renderTodos([]todos.Todo{updated}))
	return nil
}

func completeCmd(done bool) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		id, _, err := idArg(args)
		if err != nil {
			return err
		}
		updated, err := a.todos.Update(ctx, id, todos.Patch{IsCompleted: utils.Ptr(done)})
		if err != nil {
			return err
		}
		fmt.Println(renderTodos([]todos.Todo{updated}))
		return nil
	}
}

func removeCmd(ctx context.Context, a *app, args []string) error {
	id, _, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.todos.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Deleted #%d", id)))
	return nil
}

func moveCmd(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return apperrors.NewValidationError(apperrors.GeneralField, "move takes FROM and TO rows")
	}
	from, errFrom := strconv.Atoi(args[0])
	to, errTo := strconv.Atoi(args[1])
	if errFrom != nil || errTo != nil {
		return apperrors.NewValidationError(apperrors.GeneralField, "rows must be numbers")
	}
	if err := a.todos.FetchAll(ctx, ""); err != nil {
		return err
	}
	warnings, err := a.todos.Move(ctx, from-1, to-1)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Println(warnStyle.Render("warning: " + w.Error()))
	}
	fmt.Println(renderTodos(a.todos.Todos()))
	return nil
}

func idArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, apperrors.NewValidationError("id", "A todo id is required.")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, apperrors.NewValidationError("id", fmt.Sprintf("%q is not a todo id.", args[0]))
	}
	return id, args[1:], nil
}
