package extract

import (
	"strings"

	"github.com/desertthunder/setlist/internal/models"
)

const (
	RecordSpan    = 5                // Lines occupied by one record in the interval layout
	UnknownArtist = "Unknown Artist" // Artist used when no marker is found

	ArtistMarker   = "Artistes:"
	LyricistMarker = "Lyricist:"
	FilmMarker     = "Film:"
)

// Strategy identifies which extraction heuristic produced a [Result].
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyInterval
	StrategyMarker
	StrategyManual
)

func (s Strategy) String() string {
	switch s {
	case StrategyInterval:
		return "interval"
	case StrategyMarker:
		return "marker"
	case StrategyManual:
		return "manual"
	default:
		return "none"
	}
}

// Result is the outcome of [Extract].
//
// Empty reports whether nothing was recognised, in which case Strategy is [StrategyNone].
type Result struct {
	Songs    []models.SongQuery
	Strategy Strategy
}

// Empty reports whether no songs were extracted.
func (r Result) Empty() bool {
	return len(r.Songs) == 0
}

// Extract runs the interval strategy and, if it finds nothing, the marker strategy.
//
// It never fails: empty or unrecognised input yields an empty [Result].
func Extract(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Strategy: StrategyNone}
	}

	lines := strings.Split(raw, "\n")

	if songs := IntervalStrategy(lines); len(songs) > 0 {
		return Result{Songs: songs, Strategy: StrategyInterval}
	}
	if songs := MarkerStrategy(lines); len(songs) > 0 {
		return Result{Songs: songs, Strategy: StrategyMarker}
	}
	return Result{Strategy: StrategyNone}
}

// IntervalStrategy reads one record per [RecordSpan] lines starting at line 0.
func IntervalStrategy(lines []string) []models.SongQuery {
	var songs []models.SongQuery

	for i := 0; i < len(lines); i += RecordSpan {
		title := strings.TrimSpace(lines[i])
		if title == "" {
			continue
		}

		artist := UnknownArtist
		end := min(i+RecordSpan, len(lines))
		for _, line := range lines[i:end] {
			if a, ok := ArtistFrom(strings.TrimSpace(line)); ok {
				artist = a
				break
			}
		}

		songs = append(songs, models.SongQuery{Title: title, Artist: artist})
	}

	return songs
}

// MarkerStrategy scans every line for [FilmMarker] and takes the text before it as the title.
func MarkerStrategy(lines []string) []models.SongQuery {
	var songs []models.SongQuery

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, FilmMarker) {
			continue
		}

		title := strings.TrimSpace(strings.SplitN(line, FilmMarker, 2)[0])
		if title == "" {
			continue
		}

		artist, ok := ArtistFrom(line)
		if (!ok || artist == "") && i+1 < len(lines) {
			artist, _ = ArtistFrom(lines[i+1])
		}
		if artist == "" {
			artist = UnknownArtist
		}

		songs = append(songs, models.SongQuery{Title: title, Artist: artist})
	}

	return songs
}

// ArtistFrom returns the text after [ArtistMarker], up to [LyricistMarker] when present, trimmed.
//
// ok is false when line has no artist marker.
func ArtistFrom(line string) (artist string, ok bool) {
	_, after, found := strings.Cut(line, ArtistMarker)
	if !found {
		return "", false
	}
	before, _, _ := strings.Cut(after, LyricistMarker)
	return strings.TrimSpace(before), true
}

// Limit returns at most n songs. Non-positive n returns songs unchanged.
func Limit(songs []models.SongQuery, n int) []models.SongQuery {
	if n <= 0 || n >= len(songs) {
		return songs
	}
	return songs[:n]
}
