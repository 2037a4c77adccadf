package services

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthService is implemented by catalog clients that authenticate with the OAuth2 authorization code flow.
type OAuthService interface {
	// Authenticate loads credentials: either a saved token or an authorization code.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetAuthURL returns the consent page URL carrying state.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the OAuth2 configuration used to exchange codes.
	GetOAuthConfig() *oauth2.Config

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// SearchKind names the catalog object type searched for.
type SearchKind string

const (
	KindTrack SearchKind = "track"
)
