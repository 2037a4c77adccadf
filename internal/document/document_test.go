package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/setlist/internal/shared"
)

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "Songs.PDF")
	txtPath := filepath.Join(dir, "songs.txt")

	for _, p := range []string{pdfPath, txtPath} {
		if err := os.WriteFile(p, []byte("%PDF-1.4"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}

	tc := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "pdf with upper case extension", path: pdfPath},
		{name: "empty path", path: "", wantErr: shared.ErrMissingArgument},
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), wantErr: shared.ErrDocumentRead},
		{name: "directory", path: dir, wantErr: shared.ErrDocumentRead},
		{name: "wrong extension", path: txtPath, wantErr: shared.ErrInvalidArgument},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadPages(t *testing.T) {
	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.pdf")
		if err := os.WriteFile(path, []byte("not a pdf at all"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		_, err := ReadPages(path)
		if !errors.Is(err, shared.ErrDocumentRead) {
			t.Errorf("expected ErrDocumentRead, got %v", err)
		}
	})

	t.Run("ReadText propagates errors", func(t *testing.T) {
		_, err := ReadText(filepath.Join(t.TempDir(), "none.pdf"))
		if !errors.Is(err, shared.ErrDocumentRead) {
			t.Errorf("expected ErrDocumentRead, got %v", err)
		}
	})
}

func TestJoin(t *testing.T) {
	tc := []struct {
		name  string
		pages []string
		want  string
	}{
		{name: "no pages", pages: nil, want: ""},
		{name: "single page", pages: []string{"Song A"}, want: "Song A"},
		{name: "pages joined by newline", pages: []string{"Song A\nArtistes: X", "Song B"}, want: "Song A\nArtistes: X\nSong B"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.pages); got != tt.want {
				t.Errorf("Join() = %q, want %q", got, tt.want)
			}
		})
	}
}
