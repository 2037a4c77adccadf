// Package services implements the Spotify Web API client used by the setlist pipeline.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
// The [oauth2.Client] refreshes expired tokens using the refresh token, and
// [SpotifyService.SetTokenRefreshCallback] lets the caller persist new tokens.
//
// The client covers the three capabilities the pipeline needs:
//   - [SpotifyService.Search] : keyword search returning ranked [models.CandidateTrack] values
//   - [SpotifyService.CreatePlaylist] : create a playlist owned by the current user
//   - [SpotifyService.AddTracks] : append up to [MaxTracksPerRequest] tracks in one call
//
// Search calls go through a [rate.Limiter] so long song lists do not trip the API's rate limits.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : HTTP 401, reauthorization needed
//   - [shared.ErrAPIRequest] : any other non-2xx response or transport failure
package services
