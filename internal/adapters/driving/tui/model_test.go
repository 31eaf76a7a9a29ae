package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

type stubRetrieval struct {
	results []domain.QueryResult
	err     error
	lastK   int
}

func (s *stubRetrieval) Query(_ context.Context, _ string, topK int) ([]domain.QueryResult, error) {
	s.lastK = topK
	return s.results, s.err
}

func typed(m Model, text string) Model {
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func pressed(m Model, key tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model)
}

func TestEnterRunsQuery(t *testing.T) {
	stub := &stubRetrieval{results: []domain.QueryResult{
		{Source: "marina.pdf", ChunkID: 1, Text: "sea view", Score: 0.91},
	}}
	m := New(stub, 5)

	m = typed(m, "sea view")
	m = pressed(m, tea.KeyEnter)

	require.Len(t, m.results, 1)
	assert.Equal(t, 5, stub.lastK)
	assert.Contains(t, m.status, `1 passages for "sea view"`)
}

func TestEnterWithEmptyInputIsNoop(t *testing.T) {
	stub := &stubRetrieval{}
	m := pressed(New(stub, 3), tea.KeyEnter)

	assert.Equal(t, 0, stub.lastK, "no query should run")
	assert.Contains(t, m.status, "Ready")
}

func TestQueryErrorShowsStatus(t *testing.T) {
	stub := &stubRetrieval{err: errors.New("index unavailable")}
	m := New(stub, 3)

	m = typed(m, "pool")
	m = pressed(m, tea.KeyEnter)

	assert.Empty(t, m.results)
	assert.Contains(t, m.status, "index unavailable")
}

func TestEmptyResultsShowMessage(t *testing.T) {
	m := New(&stubRetrieval{}, 3)

	m = typed(m, "castle")
	m = pressed(m, tea.KeyEnter)

	assert.Contains(t, m.status, "No relevant brochures found")
}

func TestCursorWrapsAroundResults(t *testing.T) {
	stub := &stubRetrieval{results: []domain.QueryResult{
		{Source: "a.pdf", ChunkID: 1, Text: "one"},
		{Source: "b.pdf", ChunkID: 1, Text: "two"},
	}}
	m := New(stub, 3)
	m = typed(m, "x")
	m = pressed(m, tea.KeyEnter)

	m = pressed(m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)
	m = pressed(m, tea.KeyDown)
	assert.Equal(t, 0, m.cursor)
	m = pressed(m, tea.KeyUp)
	assert.Equal(t, 1, m.cursor)
}

func TestDefaultTopK(t *testing.T) {
	m := New(&stubRetrieval{}, 0)
	assert.Equal(t, 3, m.topK)
}
