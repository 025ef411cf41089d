package auth

import "sort"

type EventType string

const (
	EventLoggedIn       EventType = "logged_in"
	EventLoggedOut      EventType = "logged_out"
	EventProfileUpdated EventType = "profile_updated"
)

// Event carries the session state right after the change.
type Event struct {
	Type  EventType
	State State
}

// Subscribe registers fn for session changes. fn runs on the goroutine that made the
// change, after the session lock is released. The returned func unsubscribes.
func (m *SessionManager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subLock.Lock()
	defer m.subLock.Unlock()
	m.nextSubID++
	id := m.nextSubID
	m.subscribers[id] = fn
	return func() {
		m.subLock.Lock()
		defer m.subLock.Unlock()
		delete(m.subscribers, id)
	}
}

// OnLogout runs fn whenever the session ends, whether by Logout or because the API
// rejected the token. Data owned by the user, like the todo list, should be
// dropped here.
func (m *SessionManager) OnLogout(fn func()) (unsubscribe func()) {
	return m.Subscribe(func(evt Event) {
		if evt.Type == EventLoggedOut {
			fn()
		}
	})
}

func (m *SessionManager) notify(evt Event) {
	m.subLock.RLock()
	ids := make([]int, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subscribers[id])
	}
	m.subLock.RUnlock()

	m.l.Debug().Str("event", string(evt.Type)).Msg("session changed")
	for _, fn := range fns {
		fn(evt)
	}
}
