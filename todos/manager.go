package todos

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-todo-client/internal/utils"
)

// API is the part of the remote todo API the Manager talks to.
type API interface {
	ListTodos(ctx context.Context, search string) ([]Todo, error)
	CreateTodo(ctx context.Context, payload CreatePayload) (Todo, error)
	UpdateTodo(ctx context.Context, id int, patch Patch) (Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

// PositionWarning reports a position update that failed after a reorder. The local
// order is kept; the next FetchAll reconciles with the server.
type PositionWarning struct {
	TodoID   int
	Position int
	Err      error
}

func (w PositionWarning) Error() string {
	return fmt.Sprintf("position %d for todo %d not saved: %v", w.Position, w.TodoID, w.Err)
}

func (w PositionWarning) Unwrap() error {
	return w.Err
}

// Manager owns the local copy of the user's todo list. Callers only ever receive
// copies of its state. Network calls are made without holding the lock.
type Manager struct {
	api API
	log zerolog.Logger
	now func() time.Time

	mu       sync.RWMutex
	todos    []Todo
	loading  bool
	loaded   bool
	fetchSeq uint64
	closed   bool
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = nowFunc
	}
}

func NewManager(api API, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] api is required")
	}
	m := &Manager{
		api: api,
		log: log.Logger,
		now: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	m.log = m.log.With().Str("component", "todos").Logger()
	return m, nil
}

// Todos returns a copy of the collection in display order.
func (m *Manager) Todos() []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.todos)
}

// Get returns a copy of the todo with id.
func (m *Manager) Get(id int) (Todo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := indexOf(m.todos, id); i >= 0 {
		return m.todos[i], true
	}
	return Todo{}, false
}

// Loading is true while the first FetchAll is in flight. Later fetches and
// mutations do not report loading.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading && !m.closed
}

// Now returns the manager's clock, for building date predicates.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Close stops the manager from applying results of requests still in flight.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.loading = false
}

// Reset forgets the collection, as when the session that owned it ends. Fetches
// still in flight are discarded and the next FetchAll counts as the first again.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = nil
	m.loaded = false
	m.loading = false
	m.fetchSeq++
}

// FetchAll replaces the collection with the server's list sorted by position. On
// failure the collection is emptied so stale data is never shown. When fetches
// overlap only the most recently started one is applied.
func (m *Manager) FetchAll(ctx context.Context, search string) error {
	m.mu.Lock()
	m.fetchSeq++
	seq := m.fetchSeq
	if !m.loaded && !m.closed {
		m.loading = true
	}
	m.mu.Unlock()

	list, err := m.api.ListTodos(ctx, search)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || seq != m.fetchSeq {
		m.log.Debug().Uint64("seq", seq).Msg("discarding superseded fetch")
		return err
	}
	m.loading = false
	m.loaded = true
	if err != nil {
		m.todos = nil
		return errors.Wrap(err, "[Manager.FetchAll] list todos")
	}
	SortByPosition(list)
	m.todos = list
	m.log.Debug().Int("count", len(list)).Str("search", search).Msg("fetched todos")
	return nil
}

// Create validates locally, then appends the server's representation of the new
// todo. An empty title fails without a request.
func (m *Manager) Create(ctx context.Context, n NewTodo) (Todo, error) {
	payload, err := n.Payload(m.now())
	if err != nil {
		return Todo{}, err
	}
	created, err := m.api.CreateTodo(ctx, payload)
	if err != nil {
		return Todo{}, errors.Wrap(err, "[Manager.Create] create todo")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.todos = append(m.todos, created)
	}
	return created, nil
}

// Update sends only the set fields and replaces the local item with the server's
// response. A position change re-sorts the collection.
func (m *Manager) Update(ctx context.Context, id int, patch Patch) (Todo, error) {
	if err := patch.Validate(); err != nil {
		return Todo{}, err
	}
	updated, err := m.api.UpdateTodo(ctx, id, patch)
	if err != nil {
		return Todo{}, errors.Wrapf(err, "[Manager.Update] update todo %d", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return updated, nil
	}
	if i := indexOf(m.todos, id); i >= 0 {
		m.todos[i] = updated
		if patch.Position != nil {
			SortByPosition(m.todos)
		}
	}
	return updated, nil
}

// Delete removes the todo locally once the server confirms.
func (m *Manager) Delete(ctx context.Context, id int) error {
	if err := m.api.DeleteTodo(ctx, id); err != nil {
		return errors.Wrapf(err, "[Manager.Delete] delete todo %d", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	if i := indexOf(m.todos, id); i >= 0 {
		m.todos = slices.Delete(m.todos, i, i+1)
	}
	return nil
}

type positionChange struct {
	id       int
	position int
}

// Reorder applies newOrder locally right away, renumbering positions densely from 1,
// then saves every changed position with its own concurrent request. Failed saves
// are returned as warnings and never roll back the local order.
//
// Items of newOrder no longer in the collection are skipped, and collection items
// missing from newOrder keep their relative order after the reordered ones.
func (m *Manager) Reorder(ctx context.Context, newOrder []Todo) []PositionWarning {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	reordered, changes := m.arrange(newOrder)
	m.todos = reordered
	m.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		warnMu   sync.Mutex
		warnings []PositionWarning
	)
	for _, c := range changes {
		wg.Add(1)
		go func(c positionChange) {
			defer wg.Done()
			updated, err := m.api.UpdateTodo(ctx, c.id, Patch{Position: utils.Ptr(c.position)})
			if err != nil {
				m.log.Warn().Err(err).Int("todo_id", c.id).Int("position", c.position).Msg("position update failed")
				warnMu.Lock()
				warnings = append(warnings, PositionWarning{TodoID: c.id, Position: c.position, Err: err})
				warnMu.Unlock()
				return
			}
			m.applyPosition(updated, c.position)
		}(c)
	}
	wg.Wait()

	slices.SortFunc(warnings, func(a, b PositionWarning) int {
		return a.Position - b.Position
	})
	return warnings
}

// Move drags the item at index from to index to and reorders.
func (m *Manager) Move(ctx context.Context, from, to int) ([]PositionWarning, error) {
	moved, err := Move(m.Todos(), from, to)
	if err != nil {
		return nil, err
	}
	return m.Reorder(ctx, moved), nil
}

// FilterView returns a freshly computed, filtered copy of the collection.
func (m *Manager) FilterView(preds ...Predicate) []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Filter(m.todos, preds...)
}

// arrange builds the new local list. Must be called with mu held.
func (m *Manager) arrange(newOrder []Todo) ([]Todo, []positionChange) {
	current := make(map[int]Todo, len(m.todos))
	for _, t := range m.todos {
		current[t.ID] = t
	}

	seen := make(map[int]bool, len(newOrder))
	ordered := make([]Todo, 0, len(m.todos))
	for _, t := range newOrder {
		local, ok := current[t.ID]
		if !ok || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		ordered = append(ordered, local)
	}
	for _, t := range m.todos {
		if !seen[t.ID] {
			ordered = append(ordered, t)
		}
	}

	var changes []positionChange
	for i := range ordered {
		want := i + 1
		if ordered[i].Position != want {
			changes = append(changes, positionChange{id: ordered[i].ID, position: want})
			ordered[i].Position = want
		}
	}
	return ordered, changes
}

// applyPosition stores the server's copy of a repositioned todo, unless a later
// local change already moved it elsewhere.
func (m *Manager) applyPosition(updated Todo, sent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	i := indexOf(m.todos, updated.ID)
	if i < 0 || m.todos[i].Position != sent {
		return
	}
	updated.Position = sent
	m.todos[i] = updated
}
