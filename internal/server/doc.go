// Package server provides the local HTTP callback server used to complete Spotify's OAuth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] registered first runs outermost. [Logging] and [Recover] are the middleware the CLI installs.
//
// [CallbackRouter] registers routes as [http.ServeMux] method patterns and builds the [http.Server]
// for the listener via [CallbackRouter.NewServer].
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel. It serves the path of the configured redirect URI
// and only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
