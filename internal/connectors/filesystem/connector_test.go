package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns canned text keyed by file name, or an error.
type fakeExtractor struct {
	name  string
	texts map[string]string
	err   error
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.texts[filepath.Base(path)]
	if !ok {
		return "", errors.New("unexpected file")
	}
	return text, nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600))
	}
}

func TestLoad_MissingFolder(t *testing.T) {
	c := New(&fakeExtractor{name: "fake"})

	docs, failures, err := c.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, failures)
}

func TestLoad_EmptyFolder(t *testing.T) {
	c := New(&fakeExtractor{name: "fake"})

	docs, failures, err := c.Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, failures)
}

func TestLoad_SkipsNonPDF(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "lumina.pdf", "notes.txt", "photo.jpg", "MARINA.PDF")

	c := New(&fakeExtractor{name: "fake", texts: map[string]string{
		"lumina.pdf": "Lumina Grand overview",
		"MARINA.PDF": "Marina Heights overview",
	}})

	docs, failures, err := c.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 2)

	names := []string{docs[0].FileName, docs[1].FileName}
	assert.ElementsMatch(t, []string{"lumina.pdf", "MARINA.PDF"}, names)
}

func TestLoad_FallbackStrategy(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "lumina.pdf")

	primary := &fakeExtractor{name: "primary", err: errors.New("corrupt xref")}
	fallback := &fakeExtractor{name: "fallback", texts: map[string]string{
		"lumina.pdf": "  Recovered text  ",
	}}

	c := New(primary, fallback)
	docs, failures, err := c.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 1)
	assert.Equal(t, "Recovered text", docs[0].Text, "text should be trimmed")
}

func TestLoad_AllStrategiesFail(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "good.pdf", "bad.pdf")

	primary := &fakeExtractor{name: "primary", err: errors.New("boom")}
	fallback := &fakeExtractor{name: "fallback", texts: map[string]string{
		"good.pdf": "Readable brochure",
	}}

	c := New(primary, fallback)
	docs, failures, err := c.Load(context.Background(), dir)
	require.NoError(t, err, "one bad file must not abort the batch")

	require.Len(t, docs, 1)
	assert.Equal(t, "good.pdf", docs[0].FileName)

	require.Len(t, failures, 1)
	assert.Equal(t, "bad.pdf", failures[0].FileName)
	assert.Error(t, failures[0].Err)
}

func TestLoad_EmptyExtractionIsSuccess(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "images-only.pdf")

	c := New(&fakeExtractor{name: "fake", texts: map[string]string{
		"images-only.pdf": "   \n\t  ",
	}})

	docs, failures, err := c.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Text)
}
