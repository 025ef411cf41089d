package faketodorepo

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/jrsteele09/go-todo-client/todos"
)

var _ todos.Repo = (*FakeTodoRepo)(nil)

type FakeTodoRepo struct {
	todos  map[int]map[int]todos.Todo // owner -> id -> todo
	nextID int
	lock   sync.RWMutex
}

func NewFakeTodoRepo() *FakeTodoRepo {
	return &FakeTodoRepo{
		todos: make(map[int]map[int]todos.Todo),
	}
}

func (tr *FakeTodoRepo) List(ownerID int, search string) ([]todos.Todo, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	match := todos.Search(search)
	list := make([]todos.Todo, 0, len(tr.todos[ownerID]))
	for _, t := range tr.todos[ownerID] {
		if search == "" || match(t) {
			list = append(list, t)
		}
	}
	slices.SortFunc(list, func(a, b todos.Todo) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return list, nil
}

func (tr *FakeTodoRepo) Get(ownerID, id int) (todos.Todo, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	t, ok := tr.todos[ownerID][id]
	if !ok {
		return todos.Todo{}, todos.ErrNotFound
	}
	return t, nil
}

func (tr *FakeTodoRepo) Insert(ownerID int, t todos.Todo) (todos.Todo, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	owned, ok := tr.todos[ownerID]
	if !ok {
		owned = make(map[int]todos.Todo)
		tr.todos[ownerID] = owned
	}
	tr.nextID++
	t.ID = tr.nextID
	if t.Position == 0 {
		for _, existing := range owned {
			t.Position = max(t.Position, existing.Position)
		}
		t.Position++
	}
	t.Title = strings.TrimSpace(t.Title)
	owned[t.ID] = t
	return t, nil
}

func (tr *FakeTodoRepo) Update(ownerID int, t todos.Todo) (todos.Todo, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.todos[ownerID][t.ID]; !ok {
		return todos.Todo{}, todos.ErrNotFound
	}
	tr.todos[ownerID][t.ID] = t
	return t, nil
}

func (tr *FakeTodoRepo) Delete(ownerID, id int) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.todos[ownerID][id]; !ok {
		return todos.ErrNotFound
	}
	delete(tr.todos[ownerID], id)
	return nil
}
