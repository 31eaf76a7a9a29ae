package driven

import (
	"context"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

// DocumentLoader reads brochures from a folder and extracts their text.
// A file that cannot be read or parsed becomes a FileFailure; it never
// aborts the load. A missing folder yields zero documents, not an error.
type DocumentLoader interface {
	Load(ctx context.Context, folder string) ([]domain.Document, []domain.FileFailure, error)
}
