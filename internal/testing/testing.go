// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
)

// MockSearcher is a test double for the catalog search capability.
//
// Responses are keyed by the exact query string. Queries with no entry return no candidates.
type MockSearcher struct {
	Responses map[string][]models.CandidateTrack
	Errors    map[string]error
	// OnSearch, when set, runs before each search is answered.
	OnSearch func(query string)

	mu      sync.Mutex
	queries []string
}

func NewMockSearcher() *MockSearcher {
	return &MockSearcher{
		Responses: map[string][]models.CandidateTrack{},
		Errors:    map[string]error{},
	}
}

func (m *MockSearcher) Search(ctx context.Context, query string, kind services.SearchKind, limit int) ([]models.CandidateTrack, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.OnSearch != nil {
		m.OnSearch(query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[query]; ok {
		return nil, err
	}
	return m.Responses[query], nil
}

// Queries returns the queries issued so far, in order.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// MockPlaylistClient is a test double for the playlist capability.
type MockPlaylistClient struct {
	UserID     string
	UserErr    error
	CreateErr  error
	AddErr     error
	FailOnCall int // 1-based AddTracks call that returns AddErr; 0 fails every call

	Created *models.Playlist
	Batches [][]string
	Public  bool
}

func (m *MockPlaylistClient) CurrentUserID(ctx context.Context) (string, error) {
	if m.UserErr != nil {
		return "", m.UserErr
	}
	return m.UserID, nil
}

func (m *MockPlaylistClient) CreatePlaylist(ctx context.Context, ownerID, name string, public bool, description string) (*models.Playlist, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Public = public
	m.Created = &models.Playlist{
		ID:          "pl-" + ownerID,
		Name:        name,
		Description: description,
		Public:      public,
		ExternalURL: fmt.Sprintf("https://open.spotify.com/playlist/pl-%s", ownerID),
	}
	return m.Created, nil
}

func (m *MockPlaylistClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	call := len(m.Batches) + 1
	if m.AddErr != nil && (m.FailOnCall == 0 || m.FailOnCall == call) {
		return m.AddErr
	}
	m.Batches = append(m.Batches, append([]string(nil), trackIDs...))
	return nil
}

// Candidate builds a [models.CandidateTrack] credited to artists.
func Candidate(id, name string, artists ...string) models.CandidateTrack {
	c := models.CandidateTrack{
		ID:          id,
		Name:        name,
		Album:       models.CandidateAlbum{Name: name + " (Album)"},
		ExternalURL: "https://open.spotify.com/track/" + id,
	}
	for _, a := range artists {
		c.Artists = append(c.Artists, models.CandidateArtist{Name: a})
	}
	return c
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// LineSource feeds fixed lines to a manual entry prompt, then io.EOF.
type LineSource struct {
	Lines []string
	Err   error // returned instead of io.EOF once Lines is exhausted, when set
	pos   int
}

func (s *LineSource) ReadLine() (string, error) {
	if s.pos >= len(s.Lines) {
		if s.Err != nil {
			return "", s.Err
		}
		return "", io.EOF
	}
	line := s.Lines[s.pos]
	s.pos++
	return line, nil
}

// Remaining reports how many lines have not been read.
func (s *LineSource) Remaining() int {
	return len(s.Lines) - s.pos
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
