package todos

import (
	"fmt"
	"slices"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

// SortByPosition orders list by ascending position. Equal positions keep their
// relative order.
func SortByPosition(list []Todo) {
	slices.SortStableFunc(list, func(a, b Todo) int {
		return a.Position - b.Position
	})
}

// Move returns a copy of list with the item at from removed and re-inserted at to.
// Items between the two indexes shift by one to close the gap. Positions are not
// touched; see Renumber.
func Move(list []Todo, from, to int) ([]Todo, error) {
	if from < 0 || from >= len(list) {
		return nil, apperrors.NewValidationError("from", fmt.Sprintf("index %d out of range [0,%d)", from, len(list)))
	}
	if to < 0 || to >= len(list) {
		return nil, apperrors.NewValidationError("to", fmt.Sprintf("index %d out of range [0,%d)", to, len(list)))
	}
	out := slices.Clone(list)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, nil
}

// Renumber returns a copy of list with dense positions index+1.
func Renumber(list []Todo) []Todo {
	out := slices.Clone(list)
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

func indexOf(list []Todo, id int) int {
	return slices.IndexFunc(list, func(t Todo) bool {
		return t.ID == id
	})
}
