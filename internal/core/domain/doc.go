// Package domain defines the core business entities for brochure retrieval.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A brochure's extracted text, prior to chunking
//   - Chunk: A bounded passage of a document with a stable sequence number
//   - EmbeddedChunk: A chunk plus its embedding vector
//   - IndexEntry: The durable unit stored in the vector index
//   - QueryResult: A ranked passage returned from a similarity query
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
