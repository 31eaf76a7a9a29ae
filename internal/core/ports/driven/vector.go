package driven

import (
	"context"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

// VectorIndex stores index entries durably and answers nearest-neighbour
// queries by cosine similarity. Entries are keyed by their deterministic
// id; upserting an existing id overwrites the prior entry, which gives
// rebuilds their idempotent semantics.
type VectorIndex interface {
	// Upsert writes entries, overwriting any that share an id.
	// The write is durable before Upsert returns.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns the k entries closest to the query vector, ordered by
	// decreasing similarity. Fewer than k are returned when the collection
	// holds fewer entries; an empty collection yields an empty slice,
	// never an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count reports the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry domain.IndexEntry

	// Similarity is the cosine similarity score.
	Similarity float64
}
