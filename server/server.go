// Package server is a local stand-in for the remote todo REST API. It serves the
// same endpoints and response shapes and adds hooks that tests use to provoke
// failures.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-todo-client/internal/config"
	"github.com/jrsteele09/go-todo-client/todos"
	"github.com/jrsteele09/go-todo-client/token"
	"github.com/jrsteele09/go-todo-client/token/jwt"
	"github.com/jrsteele09/go-todo-client/token/keys"
	"github.com/jrsteele09/go-todo-client/users"
)

// Repos holds all repository dependencies for the Server
type Repos struct {
	Accounts users.AccountRepo // Registered accounts
	Todos    todos.Repo        // Todos per account
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	router *mux.Router
	routes []string
	config config.Config
	repos  Repos
	l      zerolog.Logger

	creator   *jwt.Creator
	inspector *jwt.Inspector
	revoked   *token.RevocationList
	media     *mediaStore
	hooks     *requestHooks

	tokenField string // login response field carrying the token
	paginate   bool   // wrap todo lists in {"results": [...]}
	nowTime    func() time.Time
}

type Option func(*Server)

// WithTokenField names the login response field that carries the token.
func WithTokenField(field string) Option {
	return func(s *Server) {
		s.tokenField = field
	}
}

// WithPaginatedList makes GET /api/todos/ answer with a paginated envelope.
func WithPaginatedList() Option {
	return func(s *Server) {
		s.paginate = true
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.l = l
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(cfg config.Config, repos Repos, opts ...Option) (*Server, error) {
	if repos.Accounts == nil {
		return nil, fmt.Errorf("[Server New] Accounts repo is required")
	}
	if repos.Todos == nil {
		return nil, fmt.Errorf("[Server New] Todos repo is required")
	}
	signer, err := keys.NewHMACSigner(cfg.GetServerSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create signer: %w", err)
	}
	revoked := token.NewRevocationList(func() time.Time { return jwt.NowTimeFunc() })

	s := &Server{
		env:        cfg.GetEnv(),
		router:     mux.NewRouter(),
		config:     cfg,
		repos:      repos,
		l:          log.Logger,
		creator:    jwt.NewCreator(cfg.GetAppName(), cfg.GetAccessTokenExpiry(), signer),
		inspector:  jwt.NewInspector(cfg.GetAppName(), signer, revoked),
		revoked:    revoked,
		media:      newMediaStore(),
		hooks:      newRequestHooks(),
		tokenField: "token",
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.InitialiseSystem(cfg); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRouteFunc registers handler for one method on path. Preflight requests
// for the path are answered by the CORS middleware.
func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.router.HandleFunc(path, handler).Methods(method, http.MethodOptions)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		s.l.Info().Msg(colourRoute(parts[0], parts[1]))
	}
}

func colourRoute(method, path string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	colour, ok := methodColors[method]
	if !ok {
		colour = Gray
	}
	return fmt.Sprintf("[%s] %s", colour+paddedMethod+ResetColor, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
