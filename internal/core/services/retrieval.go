package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/casadesk/brochure-search/internal/core/domain"
	"github.com/casadesk/brochure-search/internal/core/ports/driven"
	"github.com/casadesk/brochure-search/internal/core/ports/driving"
	"github.com/casadesk/brochure-search/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// embedBatchSize bounds how many chunk texts go to the embedding
// service per call during a build.
const embedBatchSize = 32

// Chunker splits loaded documents into overlapping passages.
type Chunker interface {
	Split(docs []domain.Document) []domain.Chunk
}

// IndexFactory opens the vector index for the configured collection.
// The index is opened per operation so a build never holds the store
// open longer than it needs to, and so Query sees every completed build.
type IndexFactory func() (driven.VectorIndex, error)

// RetrievalConfig holds the dependencies of the retrieval service.
type RetrievalConfig struct {
	// Loader reads brochures from Folder.
	Loader driven.DocumentLoader

	// Chunker splits documents into passages.
	Chunker Chunker

	// Embedder turns text into vectors. Its model identity is what the
	// index validates against.
	Embedder driven.EmbeddingService

	// OpenIndex opens the vector index for the collection.
	OpenIndex IndexFactory

	// Folder is the directory holding the brochure PDFs.
	Folder string

	// LockPath is the file used to serialize concurrent builds.
	LockPath string
}

// RetrievalService runs the indexing pipeline and answers similarity
// queries. It is the only entry point other subsystems use; the
// persistence path and collection name stay hidden behind it.
type RetrievalService struct {
	loader    driven.DocumentLoader
	chunker   Chunker
	embedder  driven.EmbeddingService
	openIndex IndexFactory
	folder    string
	lockPath  string
}

// NewRetrievalService creates a retrieval service from its dependencies.
func NewRetrievalService(cfg RetrievalConfig) (*RetrievalService, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("retrieval service: loader is required")
	}
	if cfg.Chunker == nil {
		return nil, fmt.Errorf("retrieval service: chunker is required")
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("retrieval service: embedder is required")
	}
	if cfg.OpenIndex == nil {
		return nil, fmt.Errorf("retrieval service: index factory is required")
	}
	if cfg.Folder == "" {
		return nil, fmt.Errorf("retrieval service: brochure folder is required")
	}
	if cfg.LockPath == "" {
		return nil, fmt.Errorf("retrieval service: lock path is required")
	}

	return &RetrievalService{
		loader:    cfg.Loader,
		chunker:   cfg.Chunker,
		embedder:  cfg.Embedder,
		openIndex: cfg.OpenIndex,
		folder:    cfg.Folder,
		lockPath:  cfg.LockPath,
	}, nil
}

// BuildIndex runs the full pipeline: load, chunk, embed, store.
// Concurrent builds against the same collection are refused with
// domain.ErrBuildInProgress rather than interleaving writes.
func (s *RetrievalService) BuildIndex(ctx context.Context) (*domain.BuildResult, error) {
	start := time.Now()
	buildID := uuid.NewString()

	logger.Section("Index Build")
	logger.Info("Build %s: loading brochures from %s", buildID, s.folder)

	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0700); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring build lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s is held by another build", domain.ErrBuildInProgress, s.lockPath)
	}
	defer lock.Unlock()

	docs, failures, err := s.loader.Load(ctx, s.folder)
	if err != nil {
		return nil, fmt.Errorf("loading brochures: %w", err)
	}
	for _, failure := range failures {
		logger.Warn("Skipped %s: %v", failure.FileName, failure.Err)
	}

	result := &domain.BuildResult{
		BuildID:   buildID,
		Documents: len(docs),
		Failures:  failures,
	}

	if len(docs) == 0 {
		logger.Info("No brochures found in %s, nothing to index", s.folder)
		result.Duration = time.Since(start)
		return result, nil
	}

	chunks := s.chunker.Split(docs)
	result.Chunks = len(chunks)
	logger.Info("Split %d brochures into %d chunks", len(docs), len(chunks))

	if len(chunks) == 0 {
		logger.Info("Brochures produced no indexable text, nothing to store")
		result.Duration = time.Since(start)
		return result, nil
	}

	entries, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	index, err := s.openIndex()
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer index.Close()

	if err := index.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("storing entries: %w", err)
	}

	total, err := index.Count(ctx)
	if err != nil {
		logger.Warn("Could not count index entries: %v", err)
	} else {
		logger.Info("Index now holds %d entries", total)
	}

	result.Duration = time.Since(start)
	logger.Info("Build %s complete in %s", buildID, result.Duration.Round(time.Millisecond))
	return result, nil
}

// embedChunks embeds chunk texts in batches and pairs each vector with
// its chunk.
func (s *RetrievalService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.IndexEntry, error) {
	entries := make([]domain.IndexEntry, 0, len(chunks))

	for batchStart := 0; batchStart < len(chunks); batchStart += embedBatchSize {
		batchEnd := min(batchStart+embedBatchSize, len(chunks))
		batch := chunks[batchStart:batchEnd]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding chunks %d-%d: %v",
				domain.ErrEmbeddingUnavailable, batchStart, batchEnd-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}

		for i, chunk := range batch {
			entries = append(entries, domain.EntryFromChunk(domain.EmbeddedChunk{
				Chunk:     chunk,
				Embedding: vectors[i],
			}))
		}
		logger.Debug("Embedded chunks %d-%d of %d", batchStart, batchEnd-1, len(chunks))
	}

	return entries, nil
}

// Query embeds the text and returns up to topK passages ordered by
// decreasing similarity. topK <= 0 falls back to driving.DefaultTopK.
func (s *RetrievalService) Query(ctx context.Context, text string, topK int) ([]domain.QueryResult, error) {
	if topK <= 0 {
		topK = driving.DefaultTopK
	}
	logger.Debug("Query: %q (top %d)", text, topK)

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbeddingUnavailable, err)
	}

	index, err := s.openIndex()
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer index.Close()

	hits, err := index.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]domain.QueryResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.QueryResult{
			Source:  hit.Entry.FileName,
			ChunkID: hit.Entry.ChunkID,
			Text:    hit.Entry.Text,
			Score:   hit.Similarity,
		}
	}
	logger.Debug("Query returned %d results", len(results))
	return results, nil
}
