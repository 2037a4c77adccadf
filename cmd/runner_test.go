package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	tu "github.com/desertthunder/setlist/internal/testing"
	"golang.org/x/oauth2"
)

const listing = `Tum Hi Ho
Film: Aashiqui 2
Artistes: Arijit Singh Lyricist: Mithoon
Music: Mithoon
Year: 2013
Kal Ho Naa Ho
Film: Kal Ho Naa Ho
Artistes: Sonu Nigam Lyricist: Javed Akhtar
Music: Shankar-Ehsaan-Loy
Year: 2003`

type mockCatalog struct {
	*tu.MockSearcher
	*tu.MockPlaylistClient
}

func newMockCatalog() *mockCatalog {
	search := tu.NewMockSearcher()
	search.Responses["track:Tum Hi Ho artist:Arijit Singh"] = []models.CandidateTrack{
		tu.Candidate("t1", "Tum Hi Ho", "Arijit Singh"),
	}
	return &mockCatalog{
		MockSearcher:       search,
		MockPlaylistClient: &tu.MockPlaylistClient{UserID: "user1"},
	}
}

type harness struct {
	runner  *Runner
	catalog *mockCatalog
	output  *bytes.Buffer
	read    []string
}

// newHarness builds a runner whose documents come from docs and whose prompts read input.
func newHarness(t *testing.T, docs map[string]string, input string) *harness {
	t.Helper()

	config := shared.DefaultConfig()
	config.Playlist.OpenBrowser = false

	h := &harness{catalog: newMockCatalog(), output: &bytes.Buffer{}}
	h.runner = NewRunner(RunnerOpts{
		Config:  config,
		Catalog: h.catalog,
		Logger:  log.New(io.Discard),
		Output:  h.output,
		Input:   strings.NewReader(input),
		ReadText: func(path string) (string, error) {
			h.read = append(h.read, path)
			text, ok := docs[path]
			if !ok {
				return "", shared.ErrDocumentRead
			}
			return text, nil
		},
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "missing.toml")
	argv := append([]string{"setlist", "--config", configPath}, args...)
	return newApp(h.runner).Run(context.Background(), argv)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")
			catalog := newMockCatalog()

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Catalog: catalog,
				Logger:  logger,
				Output:  output,
				Input:   input,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with nil ReadText uses the PDF reader", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.readText == nil {
				t.Fatal("expected readText to be set")
			}
			if _, err := runner.readText(filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, shared.ErrDocumentRead) {
				t.Errorf("expected ErrDocumentRead, got %v", err)
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, 0, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("done"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\ndone\n" {
				t.Errorf("expected %q, got %q", "\ndone\n", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "auth", "extract", "match", "build"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("command %d: expected %q, got %q", i, want[i], cmd.Name)
			}
		}
	})

	t.Run("saveTokens", func(t *testing.T) {
		t.Run("saves tokens successfully", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")

			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "test_id"
			config.Credentials.Spotify.ClientSecret = "test_secret"

			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to create test config: %v", err)
			}

			runner := NewRunner(RunnerOpts{Config: config, ConfigPath: configPath})

			token := &oauth2.Token{AccessToken: "new_access_token", RefreshToken: "new_refresh_token"}
			if err := runner.saveTokens(token); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			loaded, err := shared.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if loaded.Credentials.Spotify.AccessToken != "new_access_token" {
				t.Errorf("expected access token to be updated, got %s", loaded.Credentials.Spotify.AccessToken)
			}
			if loaded.Credentials.Spotify.RefreshToken != "new_refresh_token" {
				t.Errorf("expected refresh token to be updated, got %s", loaded.Credentials.Spotify.RefreshToken)
			}
			if loaded.Credentials.Spotify.ClientID != "test_id" {
				t.Errorf("expected client id to survive, got %s", loaded.Credentials.Spotify.ClientID)
			}
		})

		t.Run("handles nil config error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/tmp/test.toml"})
			runner.config = nil

			err := runner.saveTokens(&oauth2.Token{AccessToken: "test"})
			if err == nil {
				t.Fatal("expected error with nil config")
			}
			if !strings.Contains(err.Error(), "config is nil") {
				t.Errorf("expected nil config error, got %v", err)
			}
		})

		t.Run("handles empty configPath", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			if err := runner.saveTokens(&oauth2.Token{AccessToken: "new_token", RefreshToken: "new_refresh"}); err != nil {
				t.Fatalf("expected no error with empty path, got %v", err)
			}
			if config.Credentials.Spotify.AccessToken != "new_token" {
				t.Error("expected config to be updated in memory")
			}
		})

		t.Run("handles SaveConfig failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config:     shared.DefaultConfig(),
				ConfigPath: filepath.Join(t.TempDir(), "missing", "dir", "config.toml"),
			})

			err := runner.saveTokens(&oauth2.Token{AccessToken: "test"})
			if err == nil {
				t.Fatal("expected error with invalid path")
			}
			if !strings.Contains(err.Error(), "failed to save config") {
				t.Errorf("expected save config error, got %v", err)
			}
		})

		t.Run("handles Update error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config:     shared.DefaultConfig(),
				ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
			})

			err := runner.saveTokens(nil)
			if err == nil {
				t.Fatal("expected error when Update fails with nil token")
			}
			if !strings.Contains(err.Error(), "failed to update spotify configuration") {
				t.Errorf("expected update error, got %v", err)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput in chain, got %v", err)
			}
		})
	})

	t.Run("session", func(t *testing.T) {
		t.Run("returns injected catalog", func(t *testing.T) {
			catalog := newMockCatalog()
			runner := NewRunner(RunnerOpts{Catalog: catalog})

			got, err := runner.session(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != catalog {
				t.Error("expected injected catalog")
			}
		})

		t.Run("rejects placeholder credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig()})

			_, err := runner.session(context.Background())
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("requires a saved token", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"
			runner := NewRunner(RunnerOpts{Config: config})

			_, err := runner.session(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if err != nil && !strings.Contains(err.Error(), "setlist auth") {
				t.Errorf("expected hint to run auth, got %v", err)
			}
		})

		t.Run("opens a Spotify session from a saved token", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"
			config.Credentials.Spotify.AccessToken = "access"
			runner := NewRunner(RunnerOpts{Config: config})

			got, err := runner.session(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got == nil {
				t.Fatal("expected a catalog")
			}
			if runner.catalog != got {
				t.Error("expected catalog to be cached on the runner")
			}
		})
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config from template", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"setlist", "-c", configPath, "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, configPath)
		if !strings.Contains(output.String(), "Config written to") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
		if !strings.Contains(tu.MustReadFile(t, configPath), "[credentials.spotify]") {
			t.Error("expected template content")
		}
	})

	t.Run("leaves existing config untouched", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := shared.CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"setlist", "-c", configPath, "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("expected already exists message, got %q", output.String())
		}
	})
}

func TestAuth(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		h := newHarness(t, nil, "")

		err := h.run(t, "auth")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestExtract(t *testing.T) {
	docs := map[string]string{"listing.pdf": listing, "blank.pdf": ""}

	t.Run("prints extracted songs", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "extract", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.output.String()
		for _, want := range []string{"Extracted 2 songs (interval)", "1. Tum Hi Ho - Arijit Singh", "2. Kal Ho Naa Ho - Sonu Nigam"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "extract", "--json", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got extraction
		if err := json.Unmarshal(h.output.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode output: %v\n%s", err, h.output.String())
		}
		if got.Count != 2 || got.Strategy != "interval" || got.Source != "listing.pdf" {
			t.Errorf("unexpected extraction: %+v", got)
		}
		if got.Songs[1].Artist != "Sonu Nigam" {
			t.Errorf("expected second artist Sonu Nigam, got %q", got.Songs[1].Artist)
		}
	})

	t.Run("applies limit", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "extract", "--limit", "1", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(h.output.String(), "Kal Ho Naa Ho") {
			t.Errorf("expected only the first song, got %q", h.output.String())
		}
	})

	t.Run("reports empty listing", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "extract", "blank.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "No songs found in blank.pdf") {
			t.Errorf("expected no songs message, got %q", h.output.String())
		}
	})

	t.Run("manual fallback reads entries", func(t *testing.T) {
		h := newHarness(t, docs, "Chaiyya Chaiyya - Sukhwinder Singh\nnot valid\n\n")

		if err := h.run(t, "extract", "--manual", "--json", "blank.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.output.String()
		if !strings.Contains(out, "Invalid format") {
			t.Errorf("expected rejection of malformed line, got %q", out)
		}
		if !strings.Contains(out, `"strategy": "manual"`) || !strings.Contains(out, `"song_title": "Chaiyya Chaiyya"`) {
			t.Errorf("expected manual extraction, got %q", out)
		}
	})

	t.Run("prompts for path", func(t *testing.T) {
		h := newHarness(t, docs, "'listing.pdf'\n")

		if err := h.run(t, "extract"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(h.read) != 1 || h.read[0] != "listing.pdf" {
			t.Errorf("expected prompt path without quotes, got %v", h.read)
		}
		if !strings.Contains(h.output.String(), "Enter the path to your PDF file: ") {
			t.Error("expected path prompt")
		}
	})

	t.Run("uses configured path", func(t *testing.T) {
		h := newHarness(t, docs, "")
		h.runner.config.Document.PDFPath = "listing.pdf"

		if err := h.run(t, "extract"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(h.read) != 1 || h.read[0] != "listing.pdf" {
			t.Errorf("expected configured path, got %v", h.read)
		}
	})

	t.Run("fails without a path", func(t *testing.T) {
		h := newHarness(t, docs, "")

		err := h.run(t, "extract")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("propagates read errors", func(t *testing.T) {
		h := newHarness(t, docs, "")

		err := h.run(t, "extract", "other.pdf")
		if !errors.Is(err, shared.ErrDocumentRead) {
			t.Errorf("expected ErrDocumentRead, got %v", err)
		}
	})
}

func TestMatch(t *testing.T) {
	docs := map[string]string{"listing.pdf": listing, "blank.pdf": ""}

	t.Run("renders text report", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "match", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.output.String()
		if !strings.Contains(out, "Searching for tracks on Spotify...") {
			t.Errorf("expected progress header, got %q", out)
		}
		if !strings.Contains(out, "[1/2] ✓ Tum Hi Ho - Arijit Singh") {
			t.Errorf("expected match progress line, got %q", out)
		}
		if !strings.Contains(out, "No matching track found on Spotify") {
			t.Errorf("expected not found reason, got %q", out)
		}
		if h.catalog.Created != nil {
			t.Error("expected no playlist to be created")
		}
	})

	t.Run("renders csv report", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "match", "--format", "csv", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "Title,Artist,Found,Track ID") {
			t.Errorf("expected csv headers, got %q", h.output.String())
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		h := newHarness(t, docs, "")
		reportPath := filepath.Join(t.TempDir(), "report.json")

		if err := h.run(t, "match", "--format", "json", "--output", reportPath, "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, reportPath)
		if !strings.Contains(tu.MustReadFile(t, reportPath), `"track_id": "t1"`) {
			t.Error("expected report to contain the matched track")
		}
		if !strings.Contains(h.output.String(), "Found: 1 of 2 songs (50.0%)") {
			t.Errorf("expected summary, got %q", h.output.String())
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		h := newHarness(t, docs, "")

		err := h.run(t, "match", "--format", "xml", "listing.pdf")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(h.catalog.Queries()) != 0 {
			t.Error("expected no searches")
		}
	})

	t.Run("fails on empty listing", func(t *testing.T) {
		h := newHarness(t, docs, "")

		err := h.run(t, "match", "blank.pdf")
		if !errors.Is(err, shared.ErrNoSongs) {
			t.Errorf("expected ErrNoSongs, got %v", err)
		}
	})
}

func TestBuild(t *testing.T) {
	docs := map[string]string{"listing.pdf": listing, "blank.pdf": ""}

	t.Run("creates playlist from matches", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "build", "--name", "Bollywood Mix", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if h.catalog.Created == nil {
			t.Fatal("expected playlist to be created")
		}
		if h.catalog.Created.Name != "Bollywood Mix" {
			t.Errorf("expected name Bollywood Mix, got %q", h.catalog.Created.Name)
		}
		if h.catalog.Created.Description != "Songs from listing.pdf" {
			t.Errorf("expected default description, got %q", h.catalog.Created.Description)
		}
		if h.catalog.Public {
			t.Error("expected a private playlist by default")
		}
		if len(h.catalog.Batches) != 1 || h.catalog.Batches[0][0] != "t1" {
			t.Errorf("expected one batch with t1, got %v", h.catalog.Batches)
		}

		out := h.output.String()
		for _, want := range []string{
			"Playlist Created!",
			"Tracks added: 1",
			"URL: https://open.spotify.com/playlist/pl-user1",
			"Not found on Spotify (1):",
			"  - Kal Ho Naa Ho - Sonu Nigam",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("prompts for playlist name", func(t *testing.T) {
		h := newHarness(t, docs, "Road Trip\n")

		if err := h.run(t, "build", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.catalog.Created == nil || h.catalog.Created.Name != "Road Trip" {
			t.Errorf("expected prompted name, got %+v", h.catalog.Created)
		}
	})

	t.Run("requires a playlist name", func(t *testing.T) {
		h := newHarness(t, docs, "")

		err := h.run(t, "build", "listing.pdf")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if h.catalog.Created != nil {
			t.Error("expected no playlist")
		}
	})

	t.Run("honours public flag", func(t *testing.T) {
		h := newHarness(t, docs, "")

		if err := h.run(t, "build", "--name", "Mix", "--public", "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.catalog.Public {
			t.Error("expected a public playlist")
		}
	})

	t.Run("falls back to manual entry", func(t *testing.T) {
		h := newHarness(t, docs, "Tum Hi Ho - Arijit Singh\n\nManual Mix\n")

		if err := h.run(t, "build", "blank.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.catalog.Created == nil || h.catalog.Created.Name != "Manual Mix" {
			t.Fatalf("expected playlist from manual entry, got %+v", h.catalog.Created)
		}
		if len(h.catalog.Batches) != 1 || len(h.catalog.Batches[0]) != 1 {
			t.Errorf("expected 1 track added, got %v", h.catalog.Batches)
		}
	})

	t.Run("aborts when nothing matched", func(t *testing.T) {
		h := newHarness(t, docs, "")
		delete(h.catalog.Responses, "track:Tum Hi Ho artist:Arijit Singh")

		err := h.run(t, "build", "--name", "Mix", "listing.pdf")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
		if h.catalog.Created != nil {
			t.Error("expected no playlist to be created")
		}
		if !strings.Contains(h.output.String(), "Playlist not created") {
			t.Errorf("expected abort message, got %q", h.output.String())
		}
	})

	t.Run("reports creation failure", func(t *testing.T) {
		h := newHarness(t, docs, "")
		h.catalog.CreateErr = shared.ErrAPIRequest

		err := h.run(t, "build", "--name", "Mix", "listing.pdf")
		if err == nil || !strings.Contains(err.Error(), "failed to create playlist") {
			t.Errorf("expected creation failure, got %v", err)
		}
		if !strings.Contains(h.output.String(), "Playlist Failed") {
			t.Errorf("expected failure header, got %q", h.output.String())
		}
	})

	t.Run("writes report alongside playlist", func(t *testing.T) {
		h := newHarness(t, docs, "")
		reportPath := filepath.Join(t.TempDir(), "report.md")

		if err := h.run(t, "build", "--name", "Mix", "--report", reportPath, "listing.pdf"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, reportPath), "# Match Report: listing.pdf") {
			t.Error("expected markdown report")
		}
	})

	t.Run("rejects report with unknown extension", func(t *testing.T) {
		h := newHarness(t, docs, "")
		reportPath := filepath.Join(t.TempDir(), "report.xml")

		err := h.run(t, "build", "--name", "Mix", "--report", reportPath, "listing.pdf")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if h.catalog.Created != nil {
			t.Error("expected no playlist")
		}
	})
}
