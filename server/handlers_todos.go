package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/jrsteele09/go-todo-client/todos"
)

type paginatedTodos struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []todos.Todo `json:"results"`
}

func (s *Server) ListTodosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Todos.List(userIDFrom(r.Context()), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, err)
			return
		}
		if s.paginate {
			writeJSON(w, http.StatusOK, paginatedTodos{Count: len(list), Results: list})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateTodoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string         `json:"title"`
			Description string         `json:"description"`
			Priority    todos.Priority `json:"priority"`
			TodoDate    string         `json:"todo_date"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		now := s.nowTime()
		payload, err := todos.NewTodo{
			Title:       body.Title,
			Description: body.Description,
			Priority:    body.Priority,
			TodoDate:    body.TodoDate,
		}.Payload(now)
		if err != nil {
			writeError(w, err)
			return
		}
		stamp := now.UTC().Format(time.RFC3339)
		created, err := s.repos.Todos.Insert(userIDFrom(r.Context()), todos.Todo{
			Title:       payload.Title,
			Description: payload.Description,
			Priority:    payload.Priority,
			TodoDate:    payload.TodoDate,
			CreatedAt:   stamp,
			UpdatedAt:   stamp,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) UpdateTodoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := userIDFrom(r.Context())
		existing, ok := s.todoFromPath(w, r)
		if !ok {
			return
		}
		var patch todos.Patch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, err)
			return
		}
		if err := patch.Validate(); err != nil {
			writeError(w, err)
			return
		}
		updated := patch.Apply(existing)
		updated.UpdatedAt = s.nowTime().UTC().Format(time.RFC3339)
		updated, err := s.repos.Todos.Update(ownerID, updated)
		if err != nil {
			if errors.Is(err, todos.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "No Todo matches the given query.")
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteTodoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := s.todoFromPath(w, r)
		if !ok {
			return
		}
		if err := s.repos.Todos.Delete(userIDFrom(r.Context()), existing.ID); err != nil {
			if errors.Is(err, todos.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "No Todo matches the given query.")
				return
			}
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// todoFromPath loads the todo named by the {id} path variable, answering 404 itself
// when it does not belong to the caller.
func (s *Server) todoFromPath(w http.ResponseWriter, r *http.Request) (todos.Todo, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return todos.Todo{}, false
	}
	t, err := s.repos.Todos.Get(userIDFrom(r.Context()), id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "No Todo matches the given query.")
		return todos.Todo{}, false
	}
	return t, true
}
