// Spotify API implementation of [OAuthService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultRedirectURI = "http://127.0.0.1:8888/callback"

	// MaxTracksPerRequest is the API limit on items added to a playlist in one call.
	MaxTracksPerRequest = 100
	// MaxSearchLimit is the API limit on results per search page.
	MaxSearchLimit = 50
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	PreviewURL   *string         `json:"preview_url"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
}

// SpotifySearchResponse is the body of GET /search for type=track.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// ToCandidate converts the API representation into a [models.CandidateTrack].
func (t SpotifyTrack) ToCandidate() models.CandidateTrack {
	artists := make([]models.CandidateArtist, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = models.CandidateArtist{Name: a.Name}
	}

	candidate := models.CandidateTrack{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       models.CandidateAlbum{Name: t.Album.Name},
		ExternalURL: t.ExternalURLs.Spotify,
	}
	if t.PreviewURL != nil {
		candidate.PreviewURL = *t.PreviewURL
	}
	return candidate
}

// SpotifyService is the Spotify Web API client.
// Uses [oauth2] for authentication and provides search and playlist operations.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	baseURL        string
	limiter        *rate.Limiter
	onTokenRefresh func(*oauth2.Token)
}

// SpotifyOption customises a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithBaseURL points the client at a different API root, e.g. an [httptest.Server].
func WithBaseURL(u string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = u }
}

// WithRateLimit caps search calls per second. Non-positive values disable limiting.
func WithRateLimit(perSecond float64) SpotifyOption {
	return func(s *SpotifyService) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	s := &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authenticate performs OAuth2 authentication with Spotify.
//
// Expects either a saved token ("access_token", optionally "refresh_token" and an RFC 3339 "expiry")
// or an "auth_code" to exchange.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	accessToken := credentials["access_token"]
	refreshToken := credentials["refresh_token"]

	if accessToken != "" || refreshToken != "" {
		token := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "Bearer"}
		if expiry, ok := credentials["expiry"]; ok && expiry != "" {
			t, err := time.Parse(time.RFC3339, expiry)
			if err != nil {
				return fmt.Errorf("%w: bad expiry %q", shared.ErrInvalidCredentials, expiry)
			}
			token.Expiry = t
		}
		s.setToken(ctx, token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.setToken(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
}

func (s *SpotifyService) setToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onTokenRefresh,
		last:     token.AccessToken,
	}
	s.httpClient = oauth2.NewClient(ctx, source)
}

// SetTokenRefreshCallback registers fn to be called whenever the token source yields a new access token.
//
// Must be called before Authenticate to take effect.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the OAuth2 configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// body, when non-nil, is encoded as JSON. result, when non-nil, receives the decoded response.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrTokenExpired, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: spotify API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserID returns the ID of the authenticated user.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Search issues a keyword search and returns candidates in API rank order.
//
// query may use field filters such as "track:" and "artist:".
func (s *SpotifyService) Search(ctx context.Context, query string, kind SearchKind, limit int) ([]models.CandidateTrack, error) {
	if kind != KindTrack {
		return nil, fmt.Errorf("%w: search kind %q", shared.ErrInvalidArgument, kind)
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", string(kind))
	params.Set("limit", strconv.Itoa(limit))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	candidates := make([]models.CandidateTrack, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		candidates = append(candidates, item.ToCandidate())
	}
	return candidates, nil
}

// CreatePlaylist creates a playlist owned by ownerID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name string, public bool, description string) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	body := createPlaylistRequest{Name: name, Public: public, Description: description}

	var sp SpotifyPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &sp); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Public:      sp.Public,
		ExternalURL: sp.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends tracks to a playlist in one call, preserving order.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > MaxTracksPerRequest {
		return fmt.Errorf("%w: at most %d tracks per request, got %d", shared.ErrInvalidArgument, MaxTracksPerRequest, len(trackIDs))
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	var snapshot snapshotResponse
	return s.doRequest(ctx, http.MethodPost, endpoint, addTracksRequest{URIs: uris}, &snapshot)
}

// Token returns the current token, refreshing it if needed.
func (s *SpotifyService) Token(ctx context.Context) (*oauth2.Token, error) {
	if s.token == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.config.TokenSource(ctx, s.token).Token()
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and reports each new access token to callback.
//
// last holds the token it was seeded with, so only a refresh reaches callback.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}
