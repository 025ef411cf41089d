package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/todos"
	"github.com/jrsteele09/go-todo-client/users"
)

const (
	LoginPath          = "/api/auth/login/"
	SignupPath         = "/api/users/signup/"
	MePath             = "/api/users/me/"
	ChangePasswordPath = "/api/users/change-password/"
	TodosPath          = "/api/todos/"
)

func TodoPath(id int) string {
	return fmt.Sprintf("%s%d/", TodosPath, id)
}

var _ todos.API = (*Client)(nil)

// Login returns the raw response body; the token field name varies between servers.
func (c *Client) Login(ctx context.Context, email, password string) ([]byte, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] encode")
	}
	return c.do(ctx, call{
		op:          "Login",
		method:      http.MethodPost,
		path:        LoginPath,
		body:        body,
		contentType: "application/json",
		credentials: true,
	})
}

// Signup registers an account. The server does not open a session for it.
func (c *Client) Signup(ctx context.Context, reg users.Registration) error {
	body, err := jsonBody(reg)
	if err != nil {
		return errors.Wrap(err, "[Client.Signup] encode")
	}
	_, err = c.do(ctx, call{
		op:          "Signup",
		method:      http.MethodPost,
		path:        SignupPath,
		body:        body,
		contentType: "application/json",
	})
	return err
}

// Me returns the raw profile body so callers can merge it over a cached user.
func (c *Client) Me(ctx context.Context) ([]byte, error) {
	return c.do(ctx, call{
		op:            "Me",
		method:        http.MethodGet,
		path:          MePath,
		authenticated: true,
	})
}

// UpdateMe sends a multipart PATCH carrying the text fields and an optional photo.
func (c *Client) UpdateMe(ctx context.Context, changes users.ProfileChanges) ([]byte, error) {
	body, contentType, err := profileForm(changes)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateMe] encode")
	}
	return c.do(ctx, call{
		op:            "UpdateMe",
		method:        http.MethodPatch,
		path:          MePath,
		body:          body,
		contentType:   contentType,
		authenticated: true,
	})
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body, err := jsonBody(map[string]string{"old_password": oldPassword, "new_password": newPassword})
	if err != nil {
		return errors.Wrap(err, "[Client.ChangePassword] encode")
	}
	_, err = c.do(ctx, call{
		op:            "ChangePassword",
		method:        http.MethodPost,
		path:          ChangePasswordPath,
		body:          body,
		contentType:   "application/json",
		authenticated: true,
	})
	return err
}

func (c *Client) ListTodos(ctx context.Context, search string) ([]todos.Todo, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	body, err := c.do(ctx, call{
		op:            "ListTodos",
		method:        http.MethodGet,
		path:          TodosPath,
		query:         q,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	list, err := todos.DecodeList(body)
	if err != nil {
		return nil, errors.Wrap(&apperrors.TransportError{StatusCode: http.StatusOK, Err: err}, "[Client.ListTodos]")
	}
	return list, nil
}

func (c *Client) CreateTodo(ctx context.Context, payload todos.CreatePayload) (todos.Todo, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return todos.Todo{}, errors.Wrap(err, "[Client.CreateTodo] encode")
	}
	resp, err := c.do(ctx, call{
		op:            "CreateTodo",
		method:        http.MethodPost,
		path:          TodosPath,
		body:          body,
		contentType:   "application/json",
		authenticated: true,
	})
	if err != nil {
		return todos.Todo{}, err
	}
	return decodeTodo("CreateTodo", resp)
}

func (c *Client) UpdateTodo(ctx context.Context, id int, patch todos.Patch) (todos.Todo, error) {
	body, err := jsonBody(patch)
	if err != nil {
		return todos.Todo{}, errors.Wrap(err, "[Client.UpdateTodo] encode")
	}
	resp, err := c.do(ctx, call{
		op:            "UpdateTodo",
		method:        http.MethodPatch,
		path:          TodoPath(id),
		body:          body,
		contentType:   "application/json",
		authenticated: true,
	})
	if err != nil {
		return todos.Todo{}, err
	}
	return decodeTodo("UpdateTodo", resp)
}

func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	_, err := c.do(ctx, call{
		op:            "DeleteTodo",
		method:        http.MethodDelete,
		path:          TodoPath(id),
		authenticated: true,
	})
	return err
}

func decodeTodo(op string, data []byte) (todos.Todo, error) {
	var t todos.Todo
	if err := json.Unmarshal(data, &t); err != nil {
		return todos.Todo{}, errors.Wrapf(&apperrors.TransportError{StatusCode: http.StatusOK, Err: err}, "[Client.%s] decode", op)
	}
	return t, nil
}
