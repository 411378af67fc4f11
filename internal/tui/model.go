// Package tui is the interactive query launcher.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamusis/blink/internal/debounce"
	"github.com/kamusis/blink/internal/search"
)

// Searcher produces the entries for a query.
type Searcher interface {
	Search(ctx context.Context, query string) []search.ResultEntry
}

// Options configures the launcher model.
type Options struct {
	Searcher Searcher
	// Quiet is the debounce interval between the last keystroke and dispatch.
	Quiet time.Duration
	// Launch starts a command. It must return promptly.
	Launch func(command string) error
	// MaxRows caps the number of rendered entries. Zero means 10.
	MaxRows int
}

type queryMsg string

// Model is the bubbletea model for the launcher.
type Model struct {
	ctx      context.Context
	searcher Searcher
	launch   func(string) error
	sched    *debounce.Scheduler
	queries  chan string
	done     chan struct{}

	input    textinput.Model
	query    string // text that produced results
	results  []search.ResultEntry
	selected int
	action   int
	maxRows  int
	status   string
	launched string
	quitting bool
}

// New builds the model and renders the empty-query listing.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Prompt = "› "
	ti.Focus()

	queries := make(chan string, 1)
	done := make(chan struct{})
	sched := debounce.New(opts.Quiet, func(text string) {
		select {
		case queries <- text:
		case <-done:
		}
	})

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = 10
	}
	return Model{
		ctx:      ctx,
		searcher: opts.Searcher,
		launch:   opts.Launch,
		sched:    sched,
		queries:  queries,
		done:     done,
		input:    ti,
		results:  opts.Searcher.Search(ctx, ""),
		maxRows:  maxRows,
	}
}

func waitForQuery(queries <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-queries:
			return queryMsg(q)
		case <-done:
			return nil
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForQuery(m.queries, m.done))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case queryMsg:
		// Enter may already have dispatched this text synchronously.
		if string(msg) != m.query {
			m = m.refresh(string(msg))
		}
		return m, waitForQuery(m.queries, m.done)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
				m.action = 0
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.results)-1 {
				m.selected++
				m.action = 0
			}
			return m, nil
		case "tab":
			if n := len(m.currentActions()); n > 0 {
				m.action = (m.action + 1) % n
			}
			return m, nil
		case "shift+tab":
			if n := len(m.currentActions()); n > 0 {
				m.action = (m.action + n - 1) % n
			}
			return m, nil
		case "enter":
			// A fired timer's text can still be queued in m.queries.
			if m.sched.Pending() || m.input.Value() != m.query {
				m.sched.Cancel()
				m = m.refresh(m.input.Value())
			}
			return m.run()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.sched.Changed(v)
	}
	return m, cmd
}

// refresh replaces the result list wholesale.
func (m Model) refresh(query string) Model {
	m.query = query
	m.results = m.searcher.Search(m.ctx, query)
	m.selected = 0
	m.action = 0
	m.status = ""
	return m
}

func (m Model) currentActions() []search.Action {
	if m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	return m.results[m.selected].Actions
}

func (m Model) run() (tea.Model, tea.Cmd) {
	actions := m.currentActions()
	if len(actions) == 0 {
		m.status = "nothing to run for this entry"
		return m, nil
	}
	a := actions[m.action]
	if m.launch != nil {
		if err := m.launch(a.Command); err != nil {
			m.status = err.Error()
			return m, nil
		}
	}
	m.launched = a.Command
	return m.quit()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.sched.Cancel()
	if !m.quitting {
		close(m.done)
	}
	m.quitting = true
	return m, tea.Quit
}

// Results is the list currently shown.
func (m Model) Results() []search.ResultEntry { return m.results }

// Selected returns the highlighted entry and action indexes.
func (m Model) Selected() (entry, action int) { return m.selected, m.action }

// Launched is the command started on Enter, if any.
func (m Model) Launched() string { return m.launched }

// Status is the last error or notice shown in the footer.
func (m Model) Status() string { return m.status }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeAction  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var rows []string
	rows = append(rows, m.input.View(), "")

	start := 0
	if m.selected >= m.maxRows {
		start = m.selected - m.maxRows + 1
	}
	end := min(start+m.maxRows, len(m.results))
	for i := start; i < end; i++ {
		rows = append(rows, m.renderEntry(i))
	}

	if m.status != "" {
		rows = append(rows, "", statusStyle.Render(m.status))
	}
	rows = append(rows, "", helpStyle.Render(fmt.Sprintf("↑/↓ select • tab action • enter run • esc quit   (%d results)", len(m.results))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderEntry(i int) string {
	e := m.results[i]
	marker, style := "  ", titleStyle
	if i == m.selected {
		marker, style = "> ", selectedStyle
	}
	line := marker + style.Render(e.Title)
	if e.Description != "" {
		line += "  " + descStyle.Render(e.Description)
	}
	if i != m.selected || len(e.Actions) == 0 {
		return line
	}
	parts := make([]string, len(e.Actions))
	for j, a := range e.Actions {
		if j == m.action {
			parts[j] = activeAction.Render("[" + a.Title + "]")
		} else {
			parts[j] = actionStyle.Render(a.Title)
		}
	}
	return line + "\n    " + strings.Join(parts, "  ")
}

// Run starts the launcher in the alternate screen and returns the command
// that was launched, if any.
func Run(ctx context.Context, opts Options) (string, error) {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("launcher failed: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Launched(), nil
	}
	return "", nil
}
