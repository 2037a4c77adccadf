package server

import "net/http"

// Middleware decorates an [http.Handler].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router is implemented by [CallbackRouter].
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

var _ Router = (*CallbackRouter)(nil)
