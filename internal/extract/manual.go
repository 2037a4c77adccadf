package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// EntrySeparator splits a manual entry into title and artist.
const EntrySeparator = " - "

// InputSource yields operator input one line at a time.
//
// ReadLine returns [io.EOF] when no more input is available.
type InputSource interface {
	ReadLine() (string, error)
}

// LineSource is an [InputSource] backed by an [io.Reader].
type LineSource struct {
	scanner *bufio.Scanner
}

// NewLineSource wraps r, typically [os.Stdin].
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

// ReadLine returns the next line without its terminator.
func (s *LineSource) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// ParseEntry parses a "Title - Artist" line. The first separator wins.
func ParseEntry(line string) (models.SongQuery, error) {
	title, artist, found := strings.Cut(strings.TrimSpace(line), EntrySeparator)
	if !found {
		return models.SongQuery{}, fmt.Errorf("%w: use 'Song Title - Artist'", shared.ErrInvalidEntry)
	}
	return models.SongQuery{Title: strings.TrimSpace(title), Artist: strings.TrimSpace(artist)}, nil
}

// ManualEntry prompts on w and reads entries from src until an empty line or end of input.
//
// Malformed lines are rejected with a message and the operator is prompted again.
func ManualEntry(src InputSource, w io.Writer) ([]models.SongQuery, error) {
	if w == nil {
		w = io.Discard
	}

	fmt.Fprintln(w, "Enter songs in format 'Song Title - Artist' (enter empty line to finish):")

	var songs []models.SongQuery
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return songs, nil
		}
		if err != nil {
			return songs, fmt.Errorf("failed to read entry: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return songs, nil
		}

		song, err := ParseEntry(line)
		if err != nil {
			fmt.Fprintln(w, "Invalid format. Please use 'Song Title - Artist'")
			continue
		}
		songs = append(songs, song)
	}
}
