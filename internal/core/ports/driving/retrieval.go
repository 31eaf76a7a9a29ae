package driving

import (
	"context"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

// DefaultTopK is the number of passages returned when the caller does not
// ask for a specific count.
const DefaultTopK = 3

// RetrievalService is the sole entry point other subsystems call.
// It hides the persistence path and collection name from callers.
type RetrievalService interface {
	// BuildIndex runs the full pipeline: load brochures, chunk, embed,
	// and store. A folder with no brochures is a logged no-op, not an
	// error. Builds targeting the same collection are serialized; a held
	// lock surfaces as domain.ErrBuildInProgress. Queries are not
	// blocked during a build and may observe a partially rewritten
	// index.
	BuildIndex(ctx context.Context) (*domain.BuildResult, error)

	// Query embeds the text and returns up to topK passages ordered by
	// decreasing similarity. topK <= 0 means DefaultTopK. An empty or
	// missing collection yields an empty slice. Empty query text is
	// accepted and ranked like any other.
	Query(ctx context.Context, text string, topK int) ([]domain.QueryResult, error)
}
