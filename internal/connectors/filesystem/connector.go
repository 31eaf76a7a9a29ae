// Package filesystem loads brochure documents from a local folder.
//
// The folder is the system's only document source: a flat directory of
// PDF files maintained by the sales team. Loading is read-only and
// tolerant - a missing folder or an unreadable file reduces the batch,
// it never aborts it.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/casadesk/brochure-search/internal/core/domain"
	"github.com/casadesk/brochure-search/internal/core/ports/driven"
	"github.com/casadesk/brochure-search/internal/logger"
)

// Connector walks a brochure folder and extracts text per file.
type Connector struct {
	extractors []driven.Extractor
}

// New creates a connector that tries the given extraction strategies in
// order. The first strategy that succeeds wins; later ones are fallbacks.
func New(extractors ...driven.Extractor) *Connector {
	return &Connector{extractors: extractors}
}

// Load extracts one Document per PDF in folder. Files in other formats
// are silently skipped. A missing folder yields an empty batch and a
// warning, not an error. Files whose extraction fails under every
// strategy are reported in the returned failures and excluded from the
// documents.
//
// Document order follows the directory listing and is not guaranteed to
// be stable across platforms; callers must not depend on it.
func (c *Connector) Load(ctx context.Context, folder string) ([]domain.Document, []domain.FileFailure, error) {
	logger.Section("Document Loading")
	logger.Debug("Folder: %s", folder)

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("brochure folder not found: %s", folder)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading folder %s: %w", folder, err)
	}

	var docs []domain.Document
	var failures []domain.FileFailure

	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		path := filepath.Join(folder, entry.Name())
		text, err := c.extract(ctx, path)
		if err != nil {
			logger.Warn("failed to read %s: %v", entry.Name(), err)
			failures = append(failures, domain.FileFailure{FileName: entry.Name(), Err: err})
			continue
		}

		docs = append(docs, domain.Document{
			FileName: entry.Name(),
			Text:     strings.TrimSpace(text),
		})
	}

	logger.Info("Loaded %d documents (%d failed)", len(docs), len(failures))
	return docs, failures, nil
}

// extract tries each strategy in order and returns the first success.
// An extraction that succeeds with empty text counts as success: the
// brochure may genuinely contain only images, and the chunker drops
// empty documents downstream.
func (c *Connector) extract(ctx context.Context, path string) (string, error) {
	var lastErr error
	for _, e := range c.extractors {
		text, err := e.Extract(ctx, path)
		if err == nil {
			logger.Debug("%s extracted %s (%d chars)", e.Name(), filepath.Base(path), len(text))
			return text, nil
		}
		logger.Debug("%s failed on %s: %v", e.Name(), filepath.Base(path), err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no extraction strategy configured")
	}
	return "", lastErr
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
