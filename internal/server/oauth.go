package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultCallbackPath is used when the redirect URI has no path.
const DefaultCallbackPath = "/callback"

// OAuthResult is the token or the error produced by the callback.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler receives the authorization code redirect and exchanges the code for a token.
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	path    string
	results chan OAuthResult
	once    sync.Once
	served  atomic.Bool
}

// NewOAuthHandler creates a handler that accepts callbacks carrying state, which should be random.
//
// It serves the path of config.RedirectURL, so the registered redirect URI and the listener agree.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		path:    CallbackPath(config.RedirectURL),
		results: make(chan OAuthResult, 1),
	}
}

// CallbackPath extracts the path component of a redirect URI.
func CallbackPath(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Path == "" || u.Path == "/" {
		return DefaultCallbackPath
	}
	return u.Path
}

// CallbackAddr extracts host:port from a redirect URI, falling back to fallback.
func CallbackAddr(redirectURI, fallback string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return fallback
	}
	return u.Host
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP completes the authorization code flow for the first callback it receives.
//
// Later callbacks get a 400 without touching the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.served.CompareAndSwap(false, true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	token, status, err := h.exchange(r)
	if err != nil {
		h.Send(OAuthResult{err: err})
		renderPage(w, status, callbackPage{Title: "Authorization Failed", Message: err.Error(), Color: "#E22134"})
		return
	}

	h.Send(OAuthResult{Token: token})
	renderPage(w, http.StatusOK, callbackPage{
		Title:   "✓ Authorization Successful",
		Message: "You can close this window and return to setlist.",
		Color:   "#1DB954",
	})
}

// exchange validates the callback query and trades the code for a token.
// The returned status is the HTTP status to answer the browser with.
func (h *OAuthHandler) exchange(r *http.Request) (*oauth2.Token, int, error) {
	q := r.URL.Query()
	if q.Get("state") != h.state {
		return nil, http.StatusBadRequest, fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)
	}

	code := q.Get("code")
	if code == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)
	}
	return token, http.StatusOK, nil
}

type callbackPage struct {
	Title   string
	Message string
	Color   string
}

var pageTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .card { text-align: center; background: white; padding: 2rem;
                border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, page callbackPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, page)
}

// Send delivers result. Only the first call has any effect.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result yields exactly one [OAuthResult] and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}
