package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// The same service must be used at index-build time and at query time.
// Implementations must be deterministic: embedding a text is a pure
// function of the text and the model identity, independent of call order,
// batch composition, or wall-clock time.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// This is determined by the model and must match the VectorIndex.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// It is persisted as index metadata and validated on reconnect.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Called at startup so a missing model surfaces as a fatal
	// error before any build or query work begins.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
