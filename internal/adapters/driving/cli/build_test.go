package cli

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestIsPDFEvent(t *testing.T) {
	assert.True(t, isPDFEvent(fsnotify.Event{Name: "pdfs/marina.pdf", Op: fsnotify.Create}))
	assert.True(t, isPDFEvent(fsnotify.Event{Name: "pdfs/MARINA.PDF", Op: fsnotify.Write}))
	assert.True(t, isPDFEvent(fsnotify.Event{Name: "pdfs/old.pdf", Op: fsnotify.Remove}))

	assert.False(t, isPDFEvent(fsnotify.Event{Name: "pdfs/notes.txt", Op: fsnotify.Create}))
	assert.False(t, isPDFEvent(fsnotify.Event{Name: "pdfs/marina.pdf", Op: fsnotify.Chmod}))
	assert.False(t, isPDFEvent(fsnotify.Event{Name: "pdfs/noext", Op: fsnotify.Create}))
}
