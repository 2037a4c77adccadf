package server

import (
	"net/http"
	"strings"
	"time"
)

const readHeaderTimeout = 10 * time.Second

// CallbackRouter routes requests for the local listener that receives the OAuth redirect.
//
// Routes use [http.ServeMux] method patterns, so a wrong method gets a 405 from the mux.
type CallbackRouter struct {
	mux        *http.ServeMux
	middleware []Middleware
}

// NewCallbackRouter creates an empty [CallbackRouter].
func NewCallbackRouter() *CallbackRouter {
	return &CallbackRouter{mux: http.NewServeMux()}
}

// Use appends middleware. The first registered runs outermost.
func (r *CallbackRouter) Use(middleware ...Middleware) {
	r.middleware = append(r.middleware, middleware...)
}

// Handle registers handler for method and path. An empty method matches any method.
func (r *CallbackRouter) Handle(method, path string, handler http.Handler) {
	pattern := path
	if method != "" {
		pattern = strings.ToUpper(method) + " " + path
	}
	r.mux.Handle(pattern, r.wrap(handler))
}

// Handler registers h for GET on every path in [Handler.Routes]; OAuth redirects are always GETs.
func (r *CallbackRouter) Handler(h Handler) {
	for _, route := range h.Routes() {
		r.Handle(http.MethodGet, route, h)
	}
}

func (r *CallbackRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// NewServer returns an [http.Server] serving the router on addr.
func (r *CallbackRouter) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func (r *CallbackRouter) wrap(handler http.Handler) http.Handler {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	return handler
}
