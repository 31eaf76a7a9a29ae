package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns retrieved passages", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			results: []domain.QueryResult{
				{
					Source:  "marina.pdf",
					ChunkID: 2,
					Text:    "Payment plans start at 10% down.",
					Score:   0.93,
				},
			},
		}

		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		input := SearchInput{Query: "payment plans", TopK: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "payment plans", output.Query)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "marina.pdf", output.Results[0].Source)
		assert.Equal(t, 2, output.Results[0].ChunkID)
		assert.Equal(t, "Payment plans start at 10% down.", output.Results[0].Text)
		assert.Equal(t, 0.93, output.Results[0].Score)
		assert.Equal(t, 5, mockRetrieval.lastK)
	})

	t.Run("default top_k is 3", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "pool"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 3, mockRetrieval.lastK)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{err: errors.New("index unavailable")}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "pool"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "index unavailable")
	})
}

func TestNewServer_RequiresRetrieval(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}
