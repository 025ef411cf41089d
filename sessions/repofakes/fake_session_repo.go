package fakesessionrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-todo-client/sessions"
)

var _ sessions.Store = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	values   map[string]string
	failWith error
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values: make(map[string]string),
	}
}

func (sr *FakeSessionRepo) Get(_ context.Context, key string) (string, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.failWith != nil {
		return "", sr.failWith
	}
	v, ok := sr.values[key]
	if !ok {
		return "", sessions.ErrNotFound
	}
	return v, nil
}

func (sr *FakeSessionRepo) Set(_ context.Context, entries map[string]string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failWith != nil {
		return sr.failWith
	}
	for k, v := range entries {
		sr.values[k] = v
	}
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, keys ...string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failWith != nil {
		return sr.failWith
	}
	for _, k := range keys {
		delete(sr.values, k)
	}
	return nil
}

// FailWith makes every following call return err. nil restores normal behaviour.
func (sr *FakeSessionRepo) FailWith(err error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.failWith = err
}

// Has reports whether key is currently stored.
func (sr *FakeSessionRepo) Has(key string) bool {
	_, err := sr.Get(context.Background(), key)
	return !errors.Is(err, sessions.ErrNotFound)
}
