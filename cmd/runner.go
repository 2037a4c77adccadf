package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/document"
	"github.com/desertthunder/setlist/internal/extract"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Catalog is the remote catalog capability the pipeline needs: search plus playlist creation.
type Catalog interface {
	tasks.Searcher
	tasks.PlaylistClient
}

var _ Catalog = (*services.SpotifyService)(nil)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    Catalog
	readText   func(path string) (string, error)
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	lines      *extract.LineSource
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    Catalog                           // Opened lazily from Config when nil
	ReadText   func(path string) (string, error) // Defaults to [document.ReadText]
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.ReadText == nil {
		opts.ReadText = document.ReadText
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		readText:   opts.ReadText,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, extractCommand, matchCommand, buildCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// lineSource returns the single reader over r.input shared by every prompt.
func (r *Runner) lineSource() *extract.LineSource {
	if r.lines == nil {
		r.lines = extract.NewLineSource(r.input)
	}
	return r.lines
}

// SetLogger replaces the runner's logger, e.g. with a file logger while a TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// before loads the configuration named by --config and applies --verbose.
//
// A missing config file is not an error; commands that need credentials report it themselves.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return ctx, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("loaded config", "path", r.configPath)
	return ctx, nil
}

// session returns the catalog, opening an authenticated Spotify session from the saved token if needed.
func (r *Runner) session(ctx context.Context) (Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	if err := r.config.SessionConfig().Validate(); err != nil {
		return nil, err
	}

	spotify := r.config.Credentials.Spotify
	if !spotify.HasToken() {
		return nil, fmt.Errorf("%w: run 'setlist auth' first", shared.ErrNotAuthenticated)
	}

	srv, err := services.NewSpotifyService(spotify.Map(), services.WithRateLimit(r.config.Search.RateLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	srv.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
	})

	if err := srv.Authenticate(ctx, spotify.Token()); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	r.catalog = srv
	return srv, nil
}

// saveTokens stores token in the config and writes it to disk when a config path is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
