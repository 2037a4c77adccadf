package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MatchView ViewState = iota
	ResultView
	BuildView
	DoneView
)

// PipelineResult is what the pipeline TUI produced.
//
// Outcome is nil when the operator quit before creating a playlist.
type PipelineResult struct {
	Results []models.MatchResult
	Outcome *models.PlaylistOutcome
}

// PipelineOptions names the playlist the pipeline creates.
type PipelineOptions struct {
	Name        string
	Description string
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancelMatch  context.CancelFunc
	interrupted  bool
	view         ViewState
	queries      []models.SongQuery
	matcher      *tasks.Matcher
	assembler    *tasks.Assembler
	opts         PipelineOptions
	width        int
	height       int
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	done         chan Msg
	progress     tasks.ProgressUpdate
	results      []models.MatchResult
	summary      tasks.Summary
	resultList   list.Model
	outcome      *models.PlaylistOutcome
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, queries []models.SongQuery, matcher *tasks.Matcher, assembler *tasks.Assembler, opts PipelineOptions) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:       ctx,
		view:      MatchView,
		queries:   queries,
		matcher:   matcher,
		assembler: assembler,
		opts:      opts,
		width:     80,
		height:    24,
		spinner:   s,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts matching the queries.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startMatch())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MatchView:
			if key.Matches(msg, m.keys.quit) {
				m.interrupt()
			}
			return m, nil
		case BuildView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		case DoneView:
			return m.handleDoneKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgMatchComplete:
		m.results = msg.data.([]models.MatchResult)
		m.summary = tasks.Summarize(m.results)
		m.progressChan = nil

		items := make([]list.Item, len(m.results))
		for i, r := range m.results {
			items[i] = resultItem{result: r}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.resultList.Title = fmt.Sprintf("Matched %d of %d songs", m.summary.Found, m.summary.Total)
		if m.interrupted {
			m.resultList.Title += fmt.Sprintf(" (interrupted, %d not searched)", len(m.queries)-len(m.results))
		}
		m.view = ResultView
		return m, nil

	case MsgBuildComplete:
		outcome := msg.data.(models.PlaylistOutcome)
		m.outcome = &outcome
		m.progressChan = nil
		m.view = DoneView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resultList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		if m.summary.Found == 0 {
			m.err = fmt.Errorf("%w: no tracks to add", shared.ErrTrackNotFound)
			return m, nil
		}
		m.view = BuildView
		return m, m.startBuild()
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.open):
		if m.outcome != nil && m.outcome.PlaylistURL != "" {
			if err := shared.OpenBrowser(m.outcome.PlaylistURL); err != nil {
				m.err = err
			}
		}
	}
	return m, nil
}

// interrupt stops the scan. The pending match completes with the results gathered so far.
func (m *Model) interrupt() {
	if m.interrupted || m.cancelMatch == nil {
		return
	}
	m.interrupted = true
	m.cancelMatch()
}

func (m *Model) startMatch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan Msg, 1)
	progress, done := m.progressChan, m.done

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelMatch = cancel

	go func() {
		defer cancel()
		results := m.matcher.MatchAll(ctx, m.queries, progress)
		done <- matchCompleteMsg(results)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan Msg, 1)
	progress, done := m.progressChan, m.done
	results := m.results

	go func() {
		outcome := m.assembler.WithProgress(progress).Assemble(m.ctx, results, m.opts.Name, m.opts.Description)
		done <- buildCompleteMsg(outcome)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MatchView:
		if m.interrupted {
			return m.renderProgress("Stopping search")
		}
		return m.renderProgress("Searching Spotify")
	case ResultView:
		return m.renderResults()
	case BuildView:
		return m.renderProgress("Creating Playlist")
	case DoneView:
		return m.renderDone()
	default:
		return ""
	}
}

func (m *Model) renderProgress(heading string) string {
	title := styles.title.Render(heading)

	var phase string
	switch m.progress.Phase {
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.AddTracks:
		phase = fmt.Sprintf("Adding tracks (batch %d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s %s\n%s\n\n%s", title, m.spinner.View(), phase, m.progress.Message, helpView)
}

func (m *Model) renderResults() string {
	summary := fmt.Sprintf("Found %d/%d (%.1f%%)", m.summary.Found, m.summary.Total, m.summary.Percentage)

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.error.Render(m.err.Error())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", m.resultList.View(), styles.help.Render(summary), errLine, helpView)
}

func (m *Model) renderDone() string {
	if m.outcome == nil {
		return styles.error.Render("No result available\n\nPress q to quit")
	}

	if !m.outcome.OK() {
		return styles.error.Render(fmt.Sprintf("Playlist creation failed: %s\n\nPress q to quit", m.outcome.Message))
	}

	title := styles.success.Render("✓ Playlist Created!")
	info := fmt.Sprintf("\nPlaylist: %s\nTracks added: %d\nURL: %s",
		m.outcome.PlaylistName, m.outcome.TracksAdded, m.outcome.PlaylistURL)

	var failed string
	if n := len(m.outcome.Unmatched); n > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warning.Render(fmt.Sprintf("Not found (%d):", n)))
		for _, q := range m.outcome.Unmatched {
			failed += fmt.Sprintf("\n  • %s - %s", q.Title, q.Artist)
		}
	}

	var errLine string
	if m.err != nil {
		errLine = "\n\n" + styles.error.Render(m.err.Error())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.open, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, info, failed, errLine, helpView)
}

// Result returns the match results and, if the playlist was built, its outcome.
func (m *Model) Result() PipelineResult {
	return PipelineResult{Results: m.results, Outcome: m.outcome}
}

// RunPipeline matches queries and optionally builds the playlist on the terminal.
func RunPipeline(ctx context.Context, queries []models.SongQuery, matcher *tasks.Matcher, assembler *tasks.Assembler, opts PipelineOptions) (PipelineResult, error) {
	m := NewModel(ctx, queries, matcher, assembler, opts)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() == nil {
		return PipelineResult{}, fmt.Errorf("TUI failed: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm.Result(), nil
	}
	return m.Result(), nil
}
