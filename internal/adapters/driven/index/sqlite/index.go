package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/casadesk/brochure-search/internal/adapters/driven/index/sqlite/migrations"
	"github.com/casadesk/brochure-search/internal/core/domain"
	"github.com/casadesk/brochure-search/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*Index)(nil)

// Metadata keys stored in index_meta.
const (
	metaKeyModel      = "embedding_model"
	metaKeyDimensions = "embedding_dimensions"
)

// Index is a persistent vector index backed by SQLite. Each collection
// lives in its own database file under the persist directory, and the
// embedding model identity is recorded alongside the vectors so an
// index built with one model is never queried with another.
type Index struct {
	db         *sql.DB
	path       string
	model      string
	dimensions int
}

// Open opens (creating if necessary) the vector index for the given
// collection. On first open the embedding model name and dimensions are
// recorded in the index metadata; on subsequent opens they are validated
// and a mismatch returns domain.ErrModelMismatch.
func Open(persistDir, collection, model string, dimensions int) (*Index, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: embedding model name is empty", domain.ErrInvalidInput)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	if err := os.MkdirAll(persistDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating persist directory: %v", domain.ErrIndexUnavailable, err)
	}

	dbPath := filepath.Join(persistDir, collection+".db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrIndexUnavailable, err)
	}

	idx := &Index{
		db:         db,
		path:       dbPath,
		model:      model,
		dimensions: dimensions,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := idx.checkModel(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// migrate runs all pending migrations.
func (idx *Index) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := idx.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// checkModel records the embedding model identity on first open and
// validates it on every subsequent open. An index built with one model
// must not be searched or extended with vectors from another.
func (idx *Index) checkModel() error {
	storedModel, ok, err := idx.getMeta(metaKeyModel)
	if err != nil {
		return err
	}

	if !ok {
		// First open: claim the index for this model.
		if err := idx.setMeta(metaKeyModel, idx.model); err != nil {
			return err
		}
		return idx.setMeta(metaKeyDimensions, strconv.Itoa(idx.dimensions))
	}

	if storedModel != idx.model {
		return fmt.Errorf("%w: index was built with model %q, configured model is %q (rebuild the index or restore the original model)",
			domain.ErrModelMismatch, storedModel, idx.model)
	}

	storedDims, ok, err := idx.getMeta(metaKeyDimensions)
	if err != nil {
		return err
	}
	if ok {
		dims, err := strconv.Atoi(storedDims)
		if err != nil {
			return fmt.Errorf("parsing stored dimensions %q: %w", storedDims, err)
		}
		if dims != idx.dimensions {
			return fmt.Errorf("%w: index was built with %d dimensions, configured model produces %d",
				domain.ErrModelMismatch, dims, idx.dimensions)
		}
	}

	return nil
}

func (idx *Index) getMeta(key string) (string, bool, error) {
	var value string
	err := idx.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading index metadata %s: %w", key, err)
	}
	return value, true, nil
}

func (idx *Index) setMeta(key, value string) error {
	_, err := idx.db.Exec(`
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing index metadata %s: %w", key, err)
	}
	return nil
}

// Upsert stores the given entries, overwriting any existing entry with
// the same ID. Re-indexing the same brochure is therefore idempotent.
func (idx *Index) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	for _, entry := range entries {
		if len(entry.Embedding) != idx.dimensions {
			return fmt.Errorf("%w: entry %s has %d dimensions, index expects %d",
				domain.ErrInvalidInput, entry.ID, len(entry.Embedding), idx.dimensions)
		}
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, file_name, chunk_id, content, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			chunk_id = excluded.chunk_id,
			content = excluded.content,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		blob := float32SliceToBytes(entry.Embedding)
		if _, err := stmt.ExecContext(ctx, entry.ID, entry.FileName, entry.ChunkID, entry.Text, blob); err != nil {
			return fmt.Errorf("upserting entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the k entries nearest to the query vector by cosine
// similarity, most similar first. Ties break on entry ID so repeated
// queries return a stable order.
func (idx *Index) Search(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if len(vector) != idx.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			domain.ErrInvalidInput, len(vector), idx.dimensions)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, file_name, chunk_id, content, embedding FROM entries
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var entry domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&entry.ID, &entry.FileName, &entry.ChunkID, &entry.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entry.Embedding = bytesToFloat32Slice(blob)

		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosineSimilarity(vector, entry.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	if hits == nil {
		hits = []driven.VectorHit{}
	}
	return hits, nil
}

// Count returns the number of entries in the index.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for zero-length or mismatched vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
