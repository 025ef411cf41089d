// Package todos holds the to-do model and the client-side collection manager that
// mirrors the user's list on the remote API.
package todos

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

// DateLayout is the wire format of TodoDate.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityExtreme  Priority = "extreme"
	PriorityModerate Priority = "moderate"
	PriorityLow      Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityExtreme, PriorityModerate, PriorityLow:
		return true
	}
	return false
}

// ParsePriority accepts any letter case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", apperrors.NewValidationError("priority", fmt.Sprintf("%q is not a valid choice", s))
	}
	return p, nil
}

type Todo struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	IsCompleted bool     `json:"is_completed"`
	Position    int      `json:"position"`
	TodoDate    string   `json:"todo_date"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Date parses TodoDate in loc. ok is false when the date is missing or malformed.
func (t Todo) Date(loc *time.Location) (date time.Time, ok bool) {
	if t.TodoDate == "" {
		return time.Time{}, false
	}
	// Servers sometimes send a full timestamp; only the calendar day matters.
	raw := t.TodoDate
	if len(raw) > len(DateLayout) {
		raw = raw[:len(DateLayout)]
	}
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// NewTodo is the caller supplied part of a create request.
type NewTodo struct {
	Title       string
	Description string
	Priority    Priority // defaults to moderate
	TodoDate    string   // defaults to today
}

// CreatePayload is the body sent to POST /api/todos/.
type CreatePayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	TodoDate    string   `json:"todo_date"`
}

// Payload validates n and fills in defaults relative to now.
func (n NewTodo) Payload(now time.Time) (CreatePayload, error) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return CreatePayload{}, apperrors.NewValidationError("title", "This field may not be blank.")
	}
	priority := n.Priority
	if priority == "" {
		priority = PriorityModerate
	}
	if !priority.Valid() {
		return CreatePayload{}, apperrors.NewValidationError("priority", fmt.Sprintf("%q is not a valid choice", priority))
	}
	date := n.TodoDate
	if date == "" {
		date = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return CreatePayload{}, apperrors.NewValidationError("todo_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	return CreatePayload{
		Title:       title,
		Description: n.Description,
		Priority:    priority,
		TodoDate:    date,
	}, nil
}

// Patch is a partial update. Only non-nil fields are sent.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	IsCompleted *bool     `json:"is_completed,omitempty"`
	Position    *int      `json:"position,omitempty"`
	TodoDate    *string   `json:"todo_date,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Validate rejects values the API would refuse, before any request is made.
func (p Patch) Validate() error {
	fields := map[string]string{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		fields["title"] = "This field may not be blank."
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields["priority"] = fmt.Sprintf("%q is not a valid choice", *p.Priority)
	}
	if p.TodoDate != nil {
		if _, err := time.Parse(DateLayout, *p.TodoDate); err != nil {
			fields["todo_date"] = "Date has wrong format. Use YYYY-MM-DD."
		}
	}
	if p.Position != nil && *p.Position < 1 {
		fields["position"] = "Ensure this value is greater than or equal to 1."
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// Apply returns t with the patch applied locally.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.TodoDate != nil {
		t.TodoDate = *p.TodoDate
	}
	return t
}

// DecodeList accepts the shapes GET /api/todos/ is known to return: a flat array, or
// an object wrapping the array under "results" (paginated) or "items".
func DecodeList(data []byte) ([]Todo, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return []Todo{}, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []Todo
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode todo list: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Results []Todo `json:"results"`
		Items   []Todo `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode todo list: %w", err)
	}
	switch {
	case envelope.Results != nil:
		return envelope.Results, nil
	case envelope.Items != nil:
		return envelope.Items, nil
	}
	return []Todo{}, nil
}
