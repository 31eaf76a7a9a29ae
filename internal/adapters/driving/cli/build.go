package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/casadesk/brochure-search/internal/core/domain"
	"github.com/casadesk/brochure-search/internal/logger"
)

var buildWatch bool

// rebuildDebounce coalesces bursts of file events (a copy of several
// PDFs into the folder) into a single rebuild.
const rebuildDebounce = 2 * time.Second

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the brochure index",
	Long: `Builds the vector index from the configured brochure folder.

Every PDF is extracted, split into overlapping passages, embedded, and
stored. Rebuilding is idempotent: unchanged brochures overwrite their
previous entries. With --watch the command stays running and rebuilds
whenever the folder changes.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when the brochure folder changes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if err := buildOnce(cmd); err != nil {
		return err
	}
	if !buildWatch {
		return nil
	}
	return watchAndRebuild(cmd)
}

// buildOnce runs one full build and prints its summary.
func buildOnce(cmd *cobra.Command) error {
	svc, embedder, err := newRetrieval(cmd.Context())
	if err != nil {
		return err
	}
	defer embedder.Close()

	result, err := svc.BuildIndex(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrBuildInProgress) {
			return fmt.Errorf("another build is running: %w", err)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Indexed %d brochures (%d chunks) in %s\n",
		result.Documents, result.Chunks, result.Duration.Round(time.Millisecond))
	for _, failure := range result.Failures {
		cmd.Printf("  skipped %s: %v\n", failure.FileName, failure.Err)
	}
	return nil
}

// watchAndRebuild blocks watching the brochure folder, rebuilding after
// each quiet period. It returns when the context is cancelled.
func watchAndRebuild(cmd *cobra.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.PDFDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.PDFDir, err)
	}
	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", cfg.PDFDir)

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPDFEvent(event) {
				continue
			}
			logger.Debug("Folder change: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-rebuild:
			if err := buildOnce(cmd); err != nil {
				// A failed rebuild keeps the watch alive; the next
				// change retries.
				logger.Warn("Rebuild failed: %v", err)
			}
		}
	}
}

// isPDFEvent reports whether the event concerns a PDF being added,
// changed, or removed.
func isPDFEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
