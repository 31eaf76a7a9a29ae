// Package chunker splits brochure text into overlapping bounded passages.
//
// Splitting is hierarchical: paragraph breaks are preferred over line
// breaks, line breaks over sentence ends, sentence ends over spaces, and
// only a run of text with no natural boundary at all is cut mid-word.
// Consecutive passages share a configurable number of trailing characters
// so context survives passage boundaries.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

// DefaultChunkSize is the default passage size in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between passages.
const DefaultChunkOverlap = 100

// defaultSeparators is the boundary hierarchy, most preferred first.
// The empty string terminates the list and means "hard cut".
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits document text into chunks. It is pure and
// deterministic: no I/O, identical input yields identical chunks.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the passage size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) { s.chunkSize = size }
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) { s.overlap = overlap }
}

// New creates a splitter. An overlap that equals or exceeds the chunk
// size makes zero progress per chunk, so it fails fast with
// domain.ErrInvalidChunking rather than being silently clamped.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive",
			domain.ErrInvalidChunking, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative",
			domain.ErrInvalidChunking, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunking, s.overlap, s.chunkSize)
	}
	return s, nil
}

// Split chunks every document with non-empty text. Chunk ids are 1-based
// and restart for each document; insertion order is textual order.
// Documents with empty or whitespace-only text contribute no chunks.
func (s *Splitter) Split(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		for i, text := range s.SplitText(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				FileName: doc.FileName,
				ChunkID:  i + 1,
				Text:     text,
			})
		}
	}
	return chunks
}

// SplitText splits a single text into passages of at most the chunk size.
// Every passage is a contiguous substring of the input (modulo trimmed
// edge whitespace), and together the passages cover the input.
func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	for _, chunk := range s.split(text, s.separators) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

// split divides text using the first separator from seps that occurs in
// it. Pieces small enough are greedily merged back up to the chunk size;
// oversized pieces recurse with the remaining, finer separators.
func (s *Splitter) split(text string, seps []string) []string {
	if len(seps) == 0 {
		return s.hardCut(text)
	}

	sep := ""
	rest := seps
	for i, candidate := range seps {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		return s.hardCut(text)
	}

	var chunks []string
	var window []string

	// SplitAfter keeps the separator attached to the preceding piece,
	// which preserves coverage when pieces are rejoined.
	for _, piece := range strings.SplitAfter(text, sep) {
		if len(piece) > s.chunkSize {
			chunks = append(chunks, s.merge(window)...)
			window = nil
			chunks = append(chunks, s.split(piece, rest)...)
			continue
		}
		window = append(window, piece)
	}
	return append(chunks, s.merge(window)...)
}

// merge greedily packs consecutive pieces into chunks of at most the
// chunk size. When a chunk is emitted, trailing pieces totalling up to
// the overlap are carried into the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var cur []string
	curLen := 0

	for _, piece := range pieces {
		if curLen > 0 && curLen+len(piece) > s.chunkSize {
			chunks = append(chunks, strings.Join(cur, ""))

			// Shrink the window to the overlap budget, and further if
			// the incoming piece still would not fit.
			for len(cur) > 0 && (curLen > s.overlap || curLen+len(piece) > s.chunkSize) {
				curLen -= len(cur[0])
				cur = cur[1:]
			}
		}
		cur = append(cur, piece)
		curLen += len(piece)
	}

	if curLen > 0 {
		chunks = append(chunks, strings.Join(cur, ""))
	}
	return chunks
}

// hardCut slices text with a stride of chunkSize-overlap. It is the last
// resort for runs with no natural boundary, e.g. an enormous unbroken
// token. Cuts are backed off to rune boundaries so no chunk ever holds
// invalid UTF-8.
func (s *Splitter) hardCut(text string) []string {
	step := s.chunkSize - s.overlap

	var chunks []string
	for start := 0; start < len(text); {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		end = runeBoundary(text, end)
		chunks = append(chunks, text[start:end])

		next := runeBoundary(text, start+step)
		if next <= start {
			next = start + step
		}
		start = next
	}
	return chunks
}

// runeBoundary backs i off to the start of the rune containing it.
func runeBoundary(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
