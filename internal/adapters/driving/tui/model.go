// Package tui provides an interactive terminal UI for searching the
// brochure index.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/casadesk/brochure-search/internal/core/domain"
	"github.com/casadesk/brochure-search/internal/core/ports/driving"
)

// RetrievalPort is the TUI-facing subset of the retrieval service.
type RetrievalPort interface {
	Query(ctx context.Context, text string, topK int) ([]domain.QueryResult, error)
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	queryStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	resultsStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("> ")
)

// Model is the Bubble Tea model for the search UI.
type Model struct {
	retrieval RetrievalPort
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.QueryResult
	status    string
	cursor    int
	ready     bool
}

// New creates a search UI backed by the retrieval service.
func New(retrieval RetrievalPort, topK int) Model {
	if topK <= 0 {
		topK = driving.DefaultTopK
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		retrieval: retrieval,
		topK:      topK,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Ready. Type to search brochures.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultsStyle.GetFrameSize()
		_, qh := queryStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved - rh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderResults())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.runQuery(), nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runQuery executes the current input against the retrieval service.
func (m Model) runQuery() Model {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m
	}

	results, err := m.retrieval.Query(context.Background(), query, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else if len(results) == 0 {
		m.status = fmt.Sprintf("No relevant brochures found for %q", query)
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d passages for %q", len(results), query)
		m.results = results
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderResults())
	return m
}

// View renders the full layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Brochure Search")
	results := resultsStyle.Render(m.viewport.View())
	input := queryStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + results + "\n" + input + "\n" + status
}

// renderResults renders all hits, marking the selected one.
func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return "No results yet."
	}

	var b strings.Builder
	for i, r := range m.results {
		mark := "  "
		if i == m.cursor {
			mark = cursorMark
		}
		b.WriteString(mark)
		b.WriteString(sourceStyle.Render(fmt.Sprintf("%s #%d", r.Source, r.ChunkID)))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  score %.3f", r.Score)))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(r.Text))
		if i < len(m.results)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
