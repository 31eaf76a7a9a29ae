package driven

import "context"

// Extractor extracts plain text from a brochure file on disk.
// The loader tries extractors in order, falling back to the next when one
// fails; a failure is isolated to the offending file.
type Extractor interface {
	// Name identifies the extraction strategy in logs.
	Name() string

	// Extract returns the file's text with pages joined by newlines.
	Extract(ctx context.Context, path string) (string, error)
}
