package todos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/todos"
)

func ids(list []todos.Todo) []int {
	out := make([]int, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	list := []todos.Todo{
		{ID: 1, Title: "Buy MILK", TodoDate: "2024-03-09", Priority: todos.PriorityLow},
		{ID: 2, Title: "Call mum", Description: "about the milkman", TodoDate: "2024-03-12", Priority: todos.PriorityExtreme, IsCompleted: true},
		{ID: 3, Title: "Taxes", TodoDate: "2024-03-01", Priority: todos.PriorityModerate},
		{ID: 4, Title: "Someday", Priority: todos.PriorityLow},
		{ID: 5, Title: "Dentist", TodoDate: "2024-03-16", Priority: todos.PriorityModerate},
	}

	t.Run("search is case insensitive on title and description", func(t *testing.T) {
		require.Equal(t, []int{1, 2}, ids(todos.Filter(list, todos.Search("milk"))))
		require.Equal(t, []int{1, 2, 3, 4, 5}, ids(todos.Filter(list, todos.Search("  "))))
	})

	t.Run("due today", func(t *testing.T) {
		require.Equal(t, []int{1}, ids(todos.Filter(list, todos.DueToday(now))))
	})

	t.Run("due within excludes overdue and undated", func(t *testing.T) {
		require.Equal(t, []int{1, 2}, ids(todos.Filter(list, todos.DueWithin(now, 3))))
		require.Equal(t, []int{1, 2, 5}, ids(todos.Filter(list, todos.DueWithin(now, 7))))
	})

	t.Run("completed and priority", func(t *testing.T) {
		require.Equal(t, []int{2}, ids(todos.Filter(list, todos.Completed(true))))
		require.Equal(t, []int{1, 4}, ids(todos.Filter(list, todos.HasPriority(todos.PriorityLow))))
	})

	t.Run("predicates combine with and, Any with or", func(t *testing.T) {
		open := todos.Completed(false)
		require.Equal(t, []int{1, 5}, ids(todos.Filter(list, open, todos.Any(todos.DueToday(now), todos.HasPriority(todos.PriorityModerate)), todos.DueWithin(now, 7))))
		require.Len(t, todos.Filter(list, todos.Any()), len(list))
	})

	t.Run("input untouched", func(t *testing.T) {
		before := append([]todos.Todo(nil), list...)
		out := todos.Filter(list, todos.Search("milk"))
		out[0].Title = "changed"
		require.Equal(t, before, list)
	})
}
