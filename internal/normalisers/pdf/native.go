package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor parses PDFs in pure Go. It is less tolerant of exotic
// encodings than pdftotext but requires no external tooling.
type NativeExtractor struct{}

// NewNativeExtractor creates the pure-Go extractor.
func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

// Name identifies the strategy in logs.
func (e *NativeExtractor) Name() string {
	return "native"
}

// Extract parses the file and returns per-page text joined by newlines.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed font tables; turn that into an
	// ordinary extraction error so one bad brochure cannot take down a build.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, matching pdftotext's tolerance.
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
