package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-todo-client/token/jwt"
)

type fault struct {
	status int
	body   string
}

// requestHooks counts requests and replays injected failures.
type requestHooks struct {
	lock   sync.Mutex
	counts map[string]int
	faults map[string][]fault
	delays map[string]time.Duration
}

func newRequestHooks() *requestHooks {
	return &requestHooks{
		counts: make(map[string]int),
		faults: make(map[string][]fault),
		delays: make(map[string]time.Duration),
	}
}

func hookKey(method, path string) string {
	return method + " " + path
}

// FailNext makes the next request for method and path answer with status and body
// instead of reaching its handler. Calls queue up.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.hooks.lock.Lock()
	defer s.hooks.lock.Unlock()
	key := hookKey(method, path)
	s.hooks.faults[key] = append(s.hooks.faults[key], fault{status: status, body: body})
}

// Delay holds every request for method and path for d before handling it.
func (s *Server) Delay(method, path string, d time.Duration) {
	s.hooks.lock.Lock()
	defer s.hooks.lock.Unlock()
	s.hooks.delays[hookKey(method, path)] = d
}

// RequestCount reports how many requests for method and path arrived, preflights
// excluded.
func (s *Server) RequestCount(method, path string) int {
	s.hooks.lock.Lock()
	defer s.hooks.lock.Unlock()
	return s.hooks.counts[hookKey(method, path)]
}

// Revoke invalidates a previously issued access token.
func (s *Server) Revoke(rawToken string) error {
	claims, err := s.inspector.Verify(rawToken)
	if err != nil && !errors.Is(err, jwt.ErrRevokedToken) {
		return fmt.Errorf("[Server Revoke] %w", err)
	}
	return s.revoked.Revoke(claims.JTI, claims.ExpiresAt)
}

func (s *Server) HooksMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := hookKey(r.Method, r.URL.Path)

		s.hooks.lock.Lock()
		s.hooks.counts[key]++
		delay := s.hooks.delays[key]
		var injected *fault
		if queued := s.hooks.faults[key]; len(queued) > 0 {
			injected = &queued[0]
			s.hooks.faults[key] = queued[1:]
		}
		s.hooks.lock.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if injected != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(injected.status)
			_, _ = w.Write([]byte(injected.body))
			return
		}
		next(w, r)
	}
}
