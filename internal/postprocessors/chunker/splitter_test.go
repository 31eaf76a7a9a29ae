package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

func mustNew(t *testing.T, opts ...Option) *Splitter {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := mustNew(t)
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		s := mustNew(t, WithChunkSize(500), WithOverlap(50))
		if s.chunkSize != 500 || s.overlap != 50 {
			t.Errorf("expected 500/50, got %d/%d", s.chunkSize, s.overlap)
		}
	})

	t.Run("overlap equals chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(WithOverlap(-1))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("zero chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(0))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})
}

func TestSplitText_Empty(t *testing.T) {
	s := mustNew(t)

	for _, text := range []string{"", "   ", "\n\n\t"} {
		if got := s.SplitText(text); len(got) != 0 {
			t.Errorf("SplitText(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestSplitText_SmallContent(t *testing.T) {
	s := mustNew(t, WithChunkSize(100), WithOverlap(20))

	chunks := s.SplitText("A compact brochure description.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "A compact brochure description." {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplitText_MaxSize(t *testing.T) {
	s := mustNew(t, WithChunkSize(80), WithOverlap(16))

	text := strings.Repeat("Marina Heights offers waterfront living with flexible payment plans. ", 40)
	for i, chunk := range s.SplitText(text) {
		if len(chunk) > 80 {
			t.Errorf("chunk %d has %d chars, exceeds 80: %q", i, len(chunk), chunk)
		}
	}
}

func TestSplitText_Coverage(t *testing.T) {
	s := mustNew(t, WithChunkSize(60), WithOverlap(12))

	text := "The Lumina Grand tower rises above the bay.\n\n" +
		"Residents enjoy a private marina and rooftop gardens. " +
		"Units range from one to four bedrooms. " +
		"Handover is scheduled for the fourth quarter."
	chunks := s.SplitText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk is a substring, found at a non-decreasing offset, and the
	// final chunk reaches the end of the text: together they cover it.
	offset := 0
	for i, chunk := range chunks {
		pos := strings.Index(text[offset:], chunk)
		if pos < 0 {
			t.Fatalf("chunk %d not found in source after offset %d: %q", i, offset, chunk)
		}
		offset += pos
	}
	if !strings.HasSuffix(strings.TrimSpace(text), chunks[len(chunks)-1]) {
		t.Errorf("last chunk does not reach the end of the text")
	}
}

func TestSplitText_PrefersParagraphBoundaries(t *testing.T) {
	s := mustNew(t, WithChunkSize(50), WithOverlap(0))

	text := "First paragraph about amenities.\n\nSecond paragraph about pricing."
	chunks := s.SplitText(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph about amenities." {
		t.Errorf("chunk 1 not split on paragraph boundary: %q", chunks[0])
	}
	if chunks[1] != "Second paragraph about pricing." {
		t.Errorf("chunk 2 not split on paragraph boundary: %q", chunks[1])
	}
}

func TestSplitText_HardCutUnbrokenToken(t *testing.T) {
	s := mustNew(t, WithChunkSize(10), WithOverlap(2))

	text := strings.Repeat("x", 35)
	chunks := s.SplitText(text)
	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 10 {
			t.Errorf("chunk %d exceeds size: %d", i, len(chunk))
		}
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	s := mustNew(t, WithChunkSize(40), WithOverlap(8))

	text := strings.Repeat("Stable output for stable input. ", 20)
	first := s.SplitText(text)
	second := s.SplitText(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_ChunkNumbering(t *testing.T) {
	s := mustNew(t, WithChunkSize(50), WithOverlap(10))

	docs := []domain.Document{
		{FileName: "lumina.pdf", Text: strings.Repeat("Word ", 100)},
		{FileName: "empty.pdf", Text: ""},
		{FileName: "marina.pdf", Text: strings.Repeat("Unit ", 60)},
	}

	chunks := s.Split(docs)

	perDoc := map[string][]int{}
	for _, c := range chunks {
		perDoc[c.FileName] = append(perDoc[c.FileName], c.ChunkID)
	}

	if _, ok := perDoc["empty.pdf"]; ok {
		t.Error("empty document must contribute no chunks")
	}

	for _, name := range []string{"lumina.pdf", "marina.pdf"} {
		ids := perDoc[name]
		if len(ids) < 2 {
			t.Fatalf("%s: expected multiple chunks, got %d", name, len(ids))
		}
		for i, id := range ids {
			if id != i+1 {
				t.Errorf("%s: chunk id at position %d is %d, want %d", name, i, id, i+1)
			}
		}
	}
}

func TestSplit_WordRepetition(t *testing.T) {
	// A 2500-character document of repeated words must split into many
	// small chunks, none exceeding the configured size.
	s := mustNew(t, WithChunkSize(50), WithOverlap(10))

	docs := []domain.Document{{FileName: "repeat.pdf", Text: strings.Repeat("Word ", 500)}}
	chunks := s.Split(docs)

	if len(chunks) <= 1 {
		t.Fatalf("expected more than one chunk, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > 50 {
			t.Errorf("chunk %d has %d chars, exceeds 50", c.ChunkID, len(c.Text))
		}
		if !strings.Contains(c.Text, "Word") {
			t.Errorf("chunk %d lost its content: %q", c.ChunkID, c.Text)
		}
	}
}
