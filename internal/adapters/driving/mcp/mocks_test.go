package mcp

import (
	"context"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.QueryResult
	err     error
	lastK   int
}

func (m *mockRetrievalService) BuildIndex(_ context.Context) (*domain.BuildResult, error) {
	return &domain.BuildResult{}, m.err
}

func (m *mockRetrievalService) Query(_ context.Context, _ string, topK int) ([]domain.QueryResult, error) {
	m.lastK = topK
	return m.results, m.err
}
