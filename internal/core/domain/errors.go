package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates an unusable chunking configuration,
	// such as an overlap greater than or equal to the chunk size.
	// Chunking fails fast on it instead of making zero progress.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrEmbeddingUnavailable indicates the embedding service cannot be
	// reached or the model cannot be loaded. Fatal for build and query;
	// the index cannot be built or searched without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the persistence directory cannot be
	// created or the collection cannot be opened for writing.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrModelMismatch indicates the collection was built with a different
	// embedding model than the one configured now. Querying across models
	// silently degrades ranking, so reconnecting fails loudly instead.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrBuildInProgress indicates another process holds the exclusive
	// build lock for this collection.
	ErrBuildInProgress = errors.New("index build already in progress")
)
