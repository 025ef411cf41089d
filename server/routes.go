package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc(http.MethodPost, RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))

	// PROFILE
	s.RegisterRouteFunc(http.MethodGet, RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPatch, RouteMe, ChainMiddleware(s.UpdateMeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireAuth())...))

	// TODOS
	s.RegisterRouteFunc(http.MethodGet, RouteTodos, ChainMiddleware(s.ListTodosHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, RouteTodos, ChainMiddleware(s.CreateTodoHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPatch, RouteTodo, ChainMiddleware(s.UpdateTodoHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodDelete, RouteTodo, ChainMiddleware(s.DeleteTodoHandler(), s.APIMiddleware(s.RequireAuth())...))

	// MEDIA
	s.RegisterRouteFunc(http.MethodGet, RouteMedia, ChainMiddleware(s.MediaHandler(), s.APIMiddleware()...))

	s.router.NotFoundHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	}, s.APIMiddleware()...)
	s.router.MethodNotAllowedHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	}, s.APIMiddleware()...)
}
