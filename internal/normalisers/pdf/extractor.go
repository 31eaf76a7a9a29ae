// Package pdf extracts plain text from brochure PDFs.
//
// Two strategies are provided. ToolExtractor shells out to pdftotext
// (poppler), which handles the widest range of real-world brochures.
// NativeExtractor parses the PDF in pure Go and serves as the fallback
// when pdftotext is missing or fails on a particular file.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for best-quality PDF extraction.

Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils

Without it, brochure-search falls back to a built-in PDF parser.`
}

// ToolExtractor extracts text by running pdftotext.
type ToolExtractor struct {
	runner CommandRunner
}

// NewToolExtractor creates the pdftotext-backed extractor.
func NewToolExtractor() *ToolExtractor {
	return &ToolExtractor{runner: execRunner{}}
}

// NewToolExtractorWithRunner creates the extractor with a custom runner.
// Used by tests to avoid spawning processes.
func NewToolExtractorWithRunner(runner CommandRunner) *ToolExtractor {
	return &ToolExtractor{runner: runner}
}

// Name identifies the strategy in logs.
func (e *ToolExtractor) Name() string {
	return "pdftotext"
}

// Extract runs pdftotext and returns the text with pages joined by
// newlines. pdftotext separates pages with form feeds; those are the
// page boundaries we translate.
func (e *ToolExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := CheckAvailable(); err != nil {
		return "", err
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-q", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(out), "\f", "\n")
	return text, nil
}
