package main

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/internal/config"
	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/server"
	"github.com/jrsteele09/go-todo-client/todos"
	faketodorepo "github.com/jrsteele09/go-todo-client/todos/repofake"
	"github.com/jrsteele09/go-todo-client/users"
	fakeuserrepo "github.com/jrsteele09/go-todo-client/users/repofake"
)

type testFixture struct {
	todos    *faketodorepo.FakeTodoRepo
	accounts users.AccountRepo
}

// setupTestFixture points the command at a fresh mock API and data folder.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{todos: faketodorepo.NewFakeTodoRepo(), accounts: fakeuserrepo.NewFakeUserRepo()}
	api, err := server.New(config.New(), server.Repos{Accounts: f.accounts, Todos: f.todos})
	require.NoError(t, err)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("ENV", "TEST")
	t.Setenv("TODO_LOG_LEVEL", "error")
	t.Setenv("TODO_API_BASE_URL", srv.URL)
	t.Setenv("TODO_DATA_FOLDER", t.TempDir())
	t.Setenv("TODO_STORAGE_KEY", "cli test key")
	return f
}

func (f *testFixture) titles(t *testing.T) []string {
	t.Helper()
	list, err := f.todos.List(1, "")
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, td := range list {
		titles = append(titles, td.Title)
	}
	return titles
}

func TestRun_SessionSurvivesBetweenCommands(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, run([]string{"signup", "-email", "ada@example.com", "-password", "engine1843", "-first", "Ada", "-last", "Lovelace"}))
	require.NoError(t, run([]string{"whoami"}))

	require.NoError(t, run([]string{"add", "-title", "one"}))
	require.NoError(t, run([]string{"add", "two"}))
	require.NoError(t, run([]string{"add", "-title", "three", "-priority", "EXTREME", "-date", "2030-01-01"}))
	require.Equal(t, []string{"one", "two", "three"}, f.titles(t))

	require.NoError(t, run([]string{"move", "3", "1"}))
	require.Equal(t, []string{"three", "one", "two"}, f.titles(t))

	require.NoError(t, run([]string{"done", "1"}))
	done, err := f.todos.Get(1, 1)
	require.NoError(t, err)
	require.True(t, done.IsCompleted)

	require.NoError(t, run([]string{"list", "-done"}))
	require.NoError(t, run([]string{"rm", "2"}))
	require.Equal(t, []string{"three", "one"}, f.titles(t))

	require.NoError(t, run([]string{"logout"}))
	err = run([]string{"list"})
	require.ErrorIs(t, err, apperrors.ErrAuthentication)

	require.NoError(t, run([]string{"login", "-email", "ada@example.com", "-password", "engine1843"}))
	require.NoError(t, run([]string{"list"}))
}

func TestRun_ProfileClearsField(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, run([]string{"signup", "-email", "ada@example.com", "-password", "engine1843", "-first", "Ada", "-last", "Lovelace"}))

	require.NoError(t, run([]string{"profile", "-bio", "First programmer", "-address", "London"}))
	account, err := f.accounts.GetByEmail("ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "First programmer", account.Bio)

	require.NoError(t, run([]string{"profile", "-bio="}))
	account, err = f.accounts.GetByEmail("ada@example.com")
	require.NoError(t, err)
	require.Empty(t, account.Bio)
	require.Equal(t, "London", account.Address)
}

func TestRun_Errors(t *testing.T) {
	setupTestFixture(t)

	require.NoError(t, run(nil))
	require.Error(t, run([]string{"frobnicate"}))

	err := run([]string{"login", "-email", "nobody@example.com", "-password", "x"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, run([]string{"signup", "-email", "ada@example.com", "-password", "engine1843", "-first", "Ada", "-last", "Lovelace"}))
	err = run([]string{"rm", "42"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	err = run([]string{"edit", "1"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	err = run([]string{"add", "-priority", "urgent", "-title", "x"})
	require.Equal(t, `"urgent" is not a valid choice`, apperrors.Fields(err)["priority"])
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{apperrors.ErrInvalidCredentials, "Invalid email or password."},
		{apperrors.ErrAuthentication, "You are not logged in or your session has expired. Run \"todo login\"."},
		{apperrors.Wrapf(apperrors.ErrNotFound, "[Manager.Delete]"), "That todo no longer exists. Run \"todo list\" to refresh."},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, userMessage(tt.err))
	}
}

func TestRenderTodos(t *testing.T) {
	require.Contains(t, renderTodos(nil), "No todos")
	out := renderTodos([]todos.Todo{{ID: 7, Title: "Write notes", Priority: todos.PriorityLow, TodoDate: "2030-01-01"}})
	require.Contains(t, out, "Write notes")
	require.Contains(t, out, "#7")
}
