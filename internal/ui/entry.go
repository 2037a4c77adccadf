package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist/internal/extract"
	"github.com/desertthunder/setlist/internal/models"
)

// EntryResult is what the operator entered.
type EntryResult struct {
	Songs     []models.SongQuery
	Cancelled bool
}

// EntryModel collects "Title - Artist" lines until an empty line.
type EntryModel struct {
	input     textinput.Model
	songs     []models.SongQuery
	err       error
	done      bool
	cancelled bool
	help      help.Model
	keys      keyMap
}

// NewEntryModel creates a focused [EntryModel].
func NewEntryModel() *EntryModel {
	input := textinput.New()
	input.Placeholder = "Song Title - Artist"
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	return &EntryModel{
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

func (m *EntryModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *EntryModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		m.done = true
		return m, tea.Quit
	}

	song, err := extract.ParseEntry(line)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.songs = append(m.songs, song)
	m.input.Reset()
	return m, nil
}

func (m *EntryModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Enter songs"))
	b.WriteString("\n")
	b.WriteString(styles.help.Render("One per line as 'Song Title - Artist'. Submit an empty line to finish."))
	b.WriteString("\n\n")

	for i, s := range m.songs {
		b.WriteString(fmt.Sprintf("%s %d. %s - %s\n", styles.success.Render("✓"), i+1, s.Title, s.Artist))
	}
	if len(m.songs) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styles.error.Render("Invalid format. Please use 'Song Title - Artist'"))
		b.WriteString("\n")
	}

	doneKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter (empty)", "finish"))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, doneKey, m.keys.cancel}))
	return b.String()
}

// Result returns the songs entered so far.
func (m *EntryModel) Result() EntryResult {
	return EntryResult{Songs: m.songs, Cancelled: m.cancelled}
}

// RunManualEntry runs an [EntryModel] on the terminal until the operator finishes or ctx is cancelled.
func RunManualEntry(ctx context.Context) (EntryResult, error) {
	m := NewEntryModel()
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return EntryResult{Songs: m.songs, Cancelled: true}, nil
		}
		return EntryResult{}, fmt.Errorf("manual entry failed: %w", err)
	}

	return final.(*EntryModel).Result(), nil
}
