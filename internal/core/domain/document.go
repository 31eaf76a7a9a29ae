package domain

import "fmt"

// Document is one unit of source material: a brochure file and the text
// extracted from it. Documents are produced by the loader and discarded
// after chunking; they are never persisted.
type Document struct {
	// FileName is the brochure's file name, unique within a load batch.
	FileName string

	// Text is the full extracted content. May be empty when extraction
	// succeeded but the file contained no extractable text.
	Text string
}

// FileFailure records a file the loader had to skip.
// Failures are collected rather than aborting the batch, so callers can
// tell "zero documents because the folder was empty" apart from
// "zero documents because every extraction failed".
type FileFailure struct {
	// FileName is the file that could not be loaded.
	FileName string

	// Err is the extraction error from the last strategy attempted.
	Err error
}

// Chunk is a contiguous passage of a document's text.
type Chunk struct {
	// FileName references the parent document.
	FileName string

	// ChunkID is a 1-based sequence number, unique within FileName.
	// Insertion order equals textual order.
	ChunkID int

	// Text is the passage content, bounded by the configured chunk size.
	Text string
}

// EmbeddedChunk is a chunk plus its vector representation.
// The embedding is a pure function of Text and the model identity.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the fixed-dimensionality vector for Text.
	Embedding []float32
}

// IndexEntry is the durable unit inside the vector index. Entries are
// keyed by a deterministic id so that rebuilding from an unchanged
// brochure folder overwrites rather than duplicates.
type IndexEntry struct {
	// ID is derived from FileName and ChunkID via EntryID.
	ID string

	// Text is the passage content.
	Text string

	// Embedding is the stored vector.
	Embedding []float32

	// FileName and ChunkID are the entry's metadata.
	FileName string
	ChunkID  int
}

// EntryID derives the deterministic index id for a chunk.
// The format is shared with any store produced by other implementations
// of this pipeline, so it must not change.
func EntryID(fileName string, chunkID int) string {
	return fmt.Sprintf("%s_chunk%d", fileName, chunkID)
}

// EntryFromChunk converts an embedded chunk into its index entry.
func EntryFromChunk(ec EmbeddedChunk) IndexEntry {
	return IndexEntry{
		ID:        EntryID(ec.FileName, ec.ChunkID),
		Text:      ec.Text,
		Embedding: ec.Embedding,
		FileName:  ec.FileName,
		ChunkID:   ec.ChunkID,
	}
}
