package server

const (
	RouteLogin          = "/api/auth/login/"
	RouteSignup         = "/api/users/signup/"
	RouteMe             = "/api/users/me/"
	RouteChangePassword = "/api/users/change-password/"
	RouteTodos          = "/api/todos/"
	RouteTodo           = "/api/todos/{id:[0-9]+}/"
	RouteMedia          = "/media/{name}"

	mediaPrefix = "/media/"
)
