package todos

import (
	"strings"
	"time"
)

// Predicate selects todos for a derived view.
type Predicate func(Todo) bool

// Search matches title or description, case-insensitively. Blank text matches all.
func Search(text string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(t Todo) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	}
}

// DueToday matches todos dated on now's calendar day.
func DueToday(now time.Time) Predicate {
	return DueWithin(now, 0)
}

// DueWithin matches todos dated from today up to and including today+days.
// Overdue and undated todos never match.
func DueWithin(now time.Time, days int) Predicate {
	today := startOfDay(now)
	last := today.AddDate(0, 0, days)
	return func(t Todo) bool {
		d, ok := t.Date(now.Location())
		if !ok {
			return false
		}
		return !d.Before(today) && !d.After(last)
	}
}

func Completed(done bool) Predicate {
	return func(t Todo) bool {
		return t.IsCompleted == done
	}
}

func HasPriority(priorities ...Priority) Predicate {
	return func(t Todo) bool {
		for _, p := range priorities {
			if t.Priority == p {
				return true
			}
		}
		return false
	}
}

// Any matches when at least one predicate does, e.g. several date windows ticked at once.
func Any(preds ...Predicate) Predicate {
	return func(t Todo) bool {
		for _, p := range preds {
			if p(t) {
				return true
			}
		}
		return len(preds) == 0
	}
}

// Filter returns a new slice with the todos matching every predicate.
func Filter(list []Todo, preds ...Predicate) []Todo {
	out := make([]Todo, 0, len(list))
next:
	for _, t := range list {
		for _, p := range preds {
			if p != nil && !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
