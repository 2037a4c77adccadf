package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/xrash/smetrics"
)

const (
	// MatchThreshold is the fuzzy score a candidate must exceed to be accepted.
	MatchThreshold = 0.3
	// DefaultSearchLimit is the number of candidates requested per search.
	DefaultSearchLimit = 5

	// NoMatchReason is the failure reason for queries no strategy could resolve.
	NoMatchReason = "No matching track found on Spotify"
	// CancelledReason marks a query abandoned because its context was cancelled.
	CancelledReason = "search cancelled"
)

// Search strategy names recorded on found results.
const (
	StrategyExact = "exact"
	StrategyTitle = "title"
	StrategyFuzzy = "fuzzy"
)

// Searcher is the catalog search capability the [Matcher] depends on.
type Searcher interface {
	Search(ctx context.Context, query string, kind services.SearchKind, limit int) ([]models.CandidateTrack, error)
}

// Matcher resolves song queries to catalog tracks.
type Matcher struct {
	search Searcher
	limit  int
	logger *log.Logger
}

// NewMatcher creates a [Matcher]. A non-positive limit uses [DefaultSearchLimit]; a nil logger discards output.
func NewMatcher(search Searcher, limit int, logger *log.Logger) *Matcher {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Matcher{search: search, limit: limit, logger: logger}
}

// MatchAll resolves every query in order and returns one result per query processed.
//
// Cancelling ctx stops the scan before the next query. Results gathered so far are returned;
// a query whose searches failed because of the cancellation is dropped.
func (m *Matcher) MatchAll(ctx context.Context, queries []models.SongQuery, progress chan<- ProgressUpdate) []models.MatchResult {
	total := len(queries)
	results := make([]models.MatchResult, 0, total)

	sendProgress(progress, searchTracksUpdate(0, total, nil))

	for i := range queries {
		if ctx.Err() != nil {
			m.logger.Warn("search interrupted", "processed", len(results), "total", total)
			break
		}

		q := queries[i]
		sendProgress(progress, searchTracksUpdate(i+1, total, &q))

		result, interrupted := m.match(ctx, q)
		if interrupted {
			m.logger.Warn("search interrupted", "processed", len(results), "total", total)
			break
		}

		results = append(results, result)
		sendProgress(progress, matchedTrackUpdate(i+1, total, &result))
	}

	return results
}

// MatchOne runs the search strategies for a single query.
func (m *Matcher) MatchOne(ctx context.Context, q models.SongQuery) models.MatchResult {
	result, _ := m.match(ctx, q)
	return result
}

// match reports interrupted when a cancellation cut the strategies short.
// A candidate already returned by a completed search is kept.
func (m *Matcher) match(ctx context.Context, q models.SongQuery) (models.MatchResult, bool) {
	var lastErr error
	cancelled := func() (models.MatchResult, bool) {
		return models.NewNotFoundResult(q, CancelledReason), true
	}

	if q.Artist != "" {
		query := fmt.Sprintf("track:%s artist:%s", q.Title, q.Artist)
		if c, err := m.top(ctx, query); err != nil {
			lastErr = err
		} else if c != nil {
			return m.found(q, *c, StrategyExact), false
		}
		if ctx.Err() != nil {
			return cancelled()
		}
	}

	if c, err := m.top(ctx, "track:"+q.Title); err != nil {
		lastErr = err
	} else if c != nil {
		return m.found(q, *c, StrategyTitle), false
	}
	if ctx.Err() != nil {
		return cancelled()
	}

	cleaned := CleanTitle(q.Title)
	m.logger.Debug("trying simplified search", "query", cleaned)

	candidates, err := m.search.Search(ctx, cleaned, services.KindTrack, m.limit)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled()
		}
		lastErr = err
	} else if best, score, ok := SelectBest(cleaned, q.Artist, candidates); ok {
		m.logger.Debug("fuzzy match", "title", best.Name, "score", score)
		return m.found(q, best, StrategyFuzzy), false
	}

	if lastErr != nil {
		m.logger.Error("search failed", "title", q.Title, "error", lastErr)
		return models.NewNotFoundResult(q, fmt.Sprintf("search failed: %v", lastErr)), false
	}

	m.logger.Info("no match found", "title", q.Title)
	return models.NewNotFoundResult(q, NoMatchReason), false
}

// top returns the first candidate for query, or nil when the search came back empty.
func (m *Matcher) top(ctx context.Context, query string) (*models.CandidateTrack, error) {
	candidates, err := m.search.Search(ctx, query, services.KindTrack, m.limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

func (m *Matcher) found(q models.SongQuery, c models.CandidateTrack, strategy string) models.MatchResult {
	result := models.NewFoundResult(q, c, strategy)
	result.Similarity = Similarity(q.Title, c.Name)
	m.logger.Info("found match", "track", c.Name, "artist", c.PrimaryArtist(), "strategy", strategy)
	return result
}

// CleanTitle drops everything from a "Film:" marker onward, then any parenthesized suffix.
func CleanTitle(title string) string {
	cleaned := title
	if before, _, ok := strings.Cut(cleaned, "Film:"); ok {
		cleaned = strings.TrimSpace(before)
	}
	if before, _, ok := strings.Cut(cleaned, "("); ok {
		cleaned = strings.TrimSpace(before)
	}
	return cleaned
}

// WordSet splits s on whitespace into a set of lowercase words.
func WordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlap returns |a ∩ b| / max(|a|, 1).
func overlap(a, b map[string]struct{}) float64 {
	common := 0
	for w := range a {
		if _, ok := b[w]; ok {
			common++
		}
	}
	return float64(common) / float64(max(len(a), 1))
}

// Score rates a candidate against a cleaned title and artist.
//
// The title overlap is added to the artist overlap of every credited artist. The artist
// contributions are summed, so a candidate with several matching artists can exceed 1.
func Score(cleanedTitle, artist string, c models.CandidateTrack) float64 {
	score := overlap(WordSet(cleanedTitle), WordSet(c.Name))
	if artist == "" {
		return score
	}

	artistWords := WordSet(artist)
	for _, a := range c.Artists {
		score += overlap(artistWords, WordSet(a.Name))
	}
	return score
}

// SelectBest returns the highest scoring candidate and whether its score exceeds [MatchThreshold].
//
// The first candidate wins ties.
func SelectBest(cleanedTitle, artist string, candidates []models.CandidateTrack) (models.CandidateTrack, float64, bool) {
	var best models.CandidateTrack
	highest := 0.0
	picked := false

	for _, c := range candidates {
		if score := Score(cleanedTitle, artist, c); score > highest {
			highest = score
			best = c
			picked = true
		}
	}

	if !picked || highest <= MatchThreshold {
		return models.CandidateTrack{}, highest, false
	}
	return best, highest, true
}

// Similarity is the Jaro-Winkler similarity of two titles, case-insensitive.
//
// Informational only; it plays no part in selecting a candidate.
func Similarity(a, b string) float64 {
	return smetrics.JaroWinkler(strings.ToLower(a), strings.ToLower(b), 0.7, 4)
}
