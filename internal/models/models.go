// package models defines the data model for the setlist pipeline
package models

import "fmt"

// SongQuery is a title/artist pair produced by the extractor.
//
// Artist may be empty or "Unknown Artist". Duplicates are preserved in order.
type SongQuery struct {
	Title  string `json:"song_title"`
	Artist string `json:"artist"`
}

func (q SongQuery) String() string {
	return fmt.Sprintf("%s by %s", q.Title, q.Artist)
}

// CandidateArtist is an artist credited on a [CandidateTrack].
type CandidateArtist struct {
	Name string `json:"name"`
}

// CandidateAlbum is the album a [CandidateTrack] belongs to.
type CandidateAlbum struct {
	Name string `json:"name"`
}

// CandidateTrack is a ranked record returned by a catalog search.
type CandidateTrack struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Artists     []CandidateArtist `json:"artists"`
	Album       CandidateAlbum    `json:"album"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	ExternalURL string            `json:"external_url"`
}

// PrimaryArtist returns the first credited artist name, or "" when none are listed.
func (c CandidateTrack) PrimaryArtist() string {
	if len(c.Artists) == 0 {
		return ""
	}
	return c.Artists[0].Name
}

// MatchResult is the matcher's verdict for a single [SongQuery].
//
// Found is true iff TrackID is set; Found is false iff FailureReason is set.
type MatchResult struct {
	Query         SongQuery `json:"original_query"`
	Found         bool      `json:"found"`
	TrackID       string    `json:"track_id,omitempty"`
	TrackName     string    `json:"track_name,omitempty"`
	ArtistName    string    `json:"artist_name,omitempty"`
	AlbumName     string    `json:"album_name,omitempty"`
	PreviewURL    string    `json:"preview_url,omitempty"`
	ExternalURL   string    `json:"external_url,omitempty"`
	Strategy      string    `json:"strategy,omitempty"`   // Search strategy that produced the match
	Similarity    float64   `json:"similarity,omitempty"` // Jaro-Winkler similarity of query and track title
	FailureReason string    `json:"message,omitempty"`
}

// NewFoundResult builds a found [MatchResult] from the accepted candidate.
func NewFoundResult(q SongQuery, c CandidateTrack, strategy string) MatchResult {
	return MatchResult{
		Query:       q,
		Found:       true,
		TrackID:     c.ID,
		TrackName:   c.Name,
		ArtistName:  c.PrimaryArtist(),
		AlbumName:   c.Album.Name,
		PreviewURL:  c.PreviewURL,
		ExternalURL: c.ExternalURL,
		Strategy:    strategy,
	}
}

// NewNotFoundResult builds a not-found [MatchResult] carrying reason.
func NewNotFoundResult(q SongQuery, reason string) MatchResult {
	return MatchResult{Query: q, Found: false, FailureReason: reason}
}

// Playlist is a playlist on the remote catalog.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
	ExternalURL string `json:"url"`
}

// OutcomeStatus is the terminal status of a playlist build.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusError   OutcomeStatus = "error"
)

// PlaylistOutcome is the result of assembling a playlist from match results.
type PlaylistOutcome struct {
	Status       OutcomeStatus `json:"status"`
	PlaylistID   string        `json:"playlist_id,omitempty"`
	PlaylistName string        `json:"playlist_name,omitempty"`
	PlaylistURL  string        `json:"playlist_url,omitempty"`
	TracksAdded  int           `json:"tracks_added"`
	Unmatched    []SongQuery   `json:"not_found"`
	Message      string        `json:"message,omitempty"`
}

// OK reports whether the outcome is a success.
func (o PlaylistOutcome) OK() bool {
	return o.Status == StatusSuccess
}
