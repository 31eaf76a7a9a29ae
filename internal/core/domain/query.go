package domain

import "time"

// QueryResult is a ranked passage returned from a similarity query.
// Results are ordered by descending similarity; the slice index is the
// relevance rank. Constructed fresh per call, never persisted.
type QueryResult struct {
	// Source is the originating brochure's file name.
	Source string

	// ChunkID is the passage's sequence number within Source.
	ChunkID int

	// Text is the passage content.
	Text string

	// Score is the cosine similarity against the query embedding.
	Score float64
}

// BuildResult summarises one index build run.
type BuildResult struct {
	// BuildID identifies the run in logs.
	BuildID string

	// Documents is the number of brochures loaded.
	Documents int

	// Chunks is the number of passages indexed.
	Chunks int

	// Failures lists files skipped during loading.
	Failures []FileFailure

	// Duration is the wall-clock time of the build.
	Duration time.Duration
}
