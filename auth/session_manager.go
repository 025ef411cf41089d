// Package auth owns the client session: the bearer token and the current user.
//
// A SessionManager is the single writer of that state. Other components read the token
// through its oauth2.TokenSource and report rejected tokens back to it, which is the
// only path to a forced logout.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/sessions"
	"github.com/jrsteele09/go-todo-client/token"
	"github.com/jrsteele09/go-todo-client/users"
)

// SignupRequest is the registration form.
type SignupRequest = users.Registration

// State is a snapshot of the session. User is a copy.
type State struct {
	Token string
	User  *users.User
}

func (s State) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

type Option func(*SessionManager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *SessionManager) {
		m.l = l
	}
}

// WithNowTime sets the clock used for local token expiry checks (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *SessionManager) {
		m.nowTime = nowFunc
	}
}

type SessionManager struct {
	api     API
	store   sessions.Store
	l       zerolog.Logger
	nowTime func() time.Time

	lock  sync.RWMutex
	token string
	user  *users.User

	readyOnce sync.Once
	ready     chan struct{}

	subLock     sync.RWMutex
	subscribers map[int]func(Event)
	nextSubID   int
}

var _ oauth2.TokenSource = (*SessionManager)(nil)

// NewSessionManager wires the manager into api as its token source and rejection
// handler. The session starts logged out; call LoadSessionFromStorage to restore one.
func NewSessionManager(api API, store sessions.Store, opts ...Option) (*SessionManager, error) {
	if api == nil {
		return nil, errors.New("[NewSessionManager] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewSessionManager] store is required")
	}
	m := &SessionManager{
		api:         api,
		store:       store,
		l:           log.Logger,
		nowTime:     time.Now,
		ready:       make(chan struct{}),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	api.UseAuth(m, m.handleRejected)
	return m, nil
}

// State returns a copy of the current session.
func (m *SessionManager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.stateLocked()
}

func (m *SessionManager) stateLocked() State {
	s := State{Token: m.token}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Require fails with ErrAuthentication unless a user is logged in.
func (m *SessionManager) Require() error {
	if !m.State().LoggedIn() {
		return apperrors.ErrAuthentication
	}
	return nil
}

// Token implements oauth2.TokenSource. It never refreshes; a missing token is an
// authentication error.
func (m *SessionManager) Token() (*oauth2.Token, error) {
	m.lock.RLock()
	raw := m.token
	m.lock.RUnlock()
	if raw == "" {
		return nil, apperrors.ErrAuthentication
	}
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := token.Expiry(raw); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

// Ready is closed once LoadSessionFromStorage has settled the startup state.
func (m *SessionManager) Ready() <-chan struct{} {
	return m.ready
}

func (m *SessionManager) Login(ctx context.Context, email, password string) (State, error) {
	if err := validateCredentials(email, password); err != nil {
		return State{}, err
	}
	body, err := m.api.Login(ctx, email, password)
	if err != nil {
		return State{}, errors.Wrap(err, "[SessionManager.Login]")
	}
	tok, err := ExtractToken(body)
	if err != nil {
		return State{}, errors.Wrap(err, "[SessionManager.Login]")
	}

	m.lock.Lock()
	m.token = tok
	m.user = nil
	m.lock.Unlock()
	if err := sessions.Save(ctx, m.store, sessions.Snapshot{Token: tok}); err != nil {
		m.l.Warn().Err(err).Msg("unable to persist token")
	}

	state, err := m.establish(ctx, tok, nil)
	if err != nil {
		return State{}, errors.Wrap(err, "[SessionManager.Login] fetch profile")
	}
	m.l.Info().Str("email", state.User.Email).Msg("logged in")
	m.notify(Event{Type: EventLoggedIn, State: state})
	return state, nil
}

// Signup registers the account and then logs in with the same credentials.
func (m *SessionManager) Signup(ctx context.Context, req SignupRequest) (State, error) {
	if err := validateRegistration(req); err != nil {
		return State{}, err
	}
	if err := m.api.Signup(ctx, req); err != nil {
		return State{}, errors.Wrap(err, "[SessionManager.Signup]")
	}
	return m.Login(ctx, req.Email, req.Password)
}

// Logout forgets the session in memory and in storage. It is safe to call when
// already logged out; subscribers only hear about real transitions.
func (m *SessionManager) Logout() {
	m.logout("")
}

// UpdateProfile sends changes and merges the response into the current user.
func (m *SessionManager) UpdateProfile(ctx context.Context, changes users.ProfileChanges) (State, error) {
	if err := m.Require(); err != nil {
		return State{}, err
	}
	if err := validateProfileChanges(changes); err != nil {
		return State{}, err
	}
	sent := m.State().Token
	body, err := m.api.UpdateMe(ctx, changes)
	if err != nil {
		return State{}, errors.Wrap(err, "[SessionManager.UpdateProfile]")
	}

	m.lock.Lock()
	if m.token != sent || m.user == nil {
		m.lock.Unlock()
		return State{}, errors.Wrap(apperrors.ErrAuthentication, "[SessionManager.UpdateProfile] session changed")
	}
	merged, err := m.user.Merge(body)
	if err != nil {
		m.lock.Unlock()
		return State{}, errors.Wrap(&apperrors.TransportError{Err: err}, "[SessionManager.UpdateProfile]")
	}
	m.user = &merged
	state := m.stateLocked()
	m.lock.Unlock()

	m.persist(ctx, state)
	m.notify(Event{Type: EventProfileUpdated, State: state})
	return state, nil
}

func (m *SessionManager) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := m.Require(); err != nil {
		return err
	}
	if err := validatePasswordChange(oldPassword, newPassword); err != nil {
		return err
	}
	if err := m.api.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return errors.Wrap(err, "[SessionManager.ChangePassword]")
	}
	return nil
}

// LoadSessionFromStorage restores a persisted session by fetching the profile with
// the stored token. Any failure leaves the session logged out with storage cleared;
// the error is returned for reporting only. Ready is closed when it returns.
func (m *SessionManager) LoadSessionFromStorage(ctx context.Context) error {
	defer m.readyOnce.Do(func() { close(m.ready) })

	snap, err := sessions.Load(ctx, m.store)
	if err != nil {
		m.clearStorage()
		return errors.Wrap(err, "[SessionManager.LoadSessionFromStorage]")
	}
	if snap.Token == "" {
		return nil
	}
	if token.Expired(snap.Token, m.nowTime()) {
		m.l.Info().Msg("stored token has expired")
		m.clearStorage()
		return nil
	}

	m.lock.Lock()
	m.token = snap.Token
	m.user = nil
	m.lock.Unlock()

	state, err := m.establish(ctx, snap.Token, snap.User)
	if err != nil {
		return errors.Wrap(err, "[SessionManager.LoadSessionFromStorage] fetch profile")
	}
	m.l.Info().Str("email", state.User.Email).Msg("session restored")
	m.notify(Event{Type: EventLoggedIn, State: state})
	return nil
}

// establish fetches the profile for tok, merging over cached when given. On failure
// the session is cleared if tok is still the current token.
func (m *SessionManager) establish(ctx context.Context, tok string, cached *users.User) (State, error) {
	body, err := m.api.Me(ctx)
	if err != nil {
		m.logout(tok)
		return State{}, err
	}
	base := users.User{}
	if cached != nil {
		base = *cached
	}
	u, err := base.Merge(body)
	if err != nil {
		m.logout(tok)
		return State{}, &apperrors.TransportError{Err: err}
	}

	m.lock.Lock()
	if m.token != tok {
		m.lock.Unlock()
		return State{}, errors.Wrap(apperrors.ErrAuthentication, "session changed")
	}
	m.user = &u
	state := m.stateLocked()
	m.lock.Unlock()

	m.persist(ctx, state)
	return state, nil
}

// handleRejected is the forced logout path for 401 responses. Rejections of a token
// that is no longer current are ignored.
func (m *SessionManager) handleRejected(rejected string) {
	if m.logout(rejected) {
		m.l.Warn().Msg("session rejected by the api, logged out")
	}
}

// logout clears the session. When only is set, nothing happens unless only is the
// current token. It reports whether a session was cleared.
func (m *SessionManager) logout(only string) bool {
	m.lock.Lock()
	if only != "" && m.token != only {
		m.lock.Unlock()
		return false
	}
	hadToken := m.token != ""
	wasLoggedIn := hadToken && m.user != nil
	m.token = ""
	m.user = nil
	m.lock.Unlock()

	m.clearStorage()
	if wasLoggedIn {
		m.notify(Event{Type: EventLoggedOut})
	}
	return hadToken
}

func (m *SessionManager) persist(ctx context.Context, state State) {
	if err := sessions.Save(ctx, m.store, sessions.Snapshot{Token: state.Token, User: state.User}); err != nil {
		m.l.Warn().Err(err).Msg("unable to persist session")
	}
}

func (m *SessionManager) clearStorage() {
	if err := sessions.Clear(context.Background(), m.store); err != nil {
		m.l.Warn().Err(err).Msg("unable to clear stored session")
	}
}
