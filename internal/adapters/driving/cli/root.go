// Package cli implements the brochure-search command line interface.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/casadesk/brochure-search/internal/adapters/driven/embedding/ollama"
	"github.com/casadesk/brochure-search/internal/adapters/driven/embedding/openai"
	indexsqlite "github.com/casadesk/brochure-search/internal/adapters/driven/index/sqlite"
	"github.com/casadesk/brochure-search/internal/config"
	"github.com/casadesk/brochure-search/internal/connectors/filesystem"
	"github.com/casadesk/brochure-search/internal/core/ports/driven"
	"github.com/casadesk/brochure-search/internal/core/services"
	"github.com/casadesk/brochure-search/internal/logger"
	"github.com/casadesk/brochure-search/internal/normalisers/pdf"
	"github.com/casadesk/brochure-search/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string

	// cfg is loaded once in the persistent pre-run and shared by all
	// commands.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "brochure-search",
	Short: "Semantic search over property brochures",
	Long: `brochure-search indexes a folder of property brochure PDFs into a
persistent vector index and answers free-text queries with the most
relevant passages.

The index is rebuilt wholesale with "build" and queried with "search",
the HTTP API ("serve"), the terminal UI ("tui"), or an MCP client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		loaded, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command with the given version string. The
// context cancels long-running commands (serve, tui, build --watch) on
// shutdown.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (TOML)")
}

// newEmbedder constructs the configured embedding service and verifies
// it is reachable. Model unavailability is fatal for every operation
// that needs vectors, so it surfaces here rather than mid-pipeline.
func newEmbedder(ctx context.Context) (driven.EmbeddingService, error) {
	var (
		embedder driven.EmbeddingService
		err      error
	)

	switch cfg.Embedding.Provider {
	case "", "ollama":
		embedder = ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
	case "openai":
		embedder, err = openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	if err := embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("embedding service unavailable: %w", err)
	}
	logger.Debug("Embedding service ready: %s (%d dimensions)", embedder.ModelName(), embedder.Dimensions())
	return embedder, nil
}

// newLoader builds the brochure loader with its extraction strategies:
// pdftotext when installed, the native parser as fallback.
func newLoader() *filesystem.Connector {
	var extractors []driven.Extractor
	if err := pdf.CheckAvailable(); err == nil {
		extractors = append(extractors, pdf.NewToolExtractor())
	} else {
		logger.Debug("pdftotext not found, using native extraction only\n%s", pdf.InstallInstructions())
	}
	extractors = append(extractors, pdf.NewNativeExtractor())
	return filesystem.New(extractors...)
}

// newRetrieval wires the full retrieval service from configuration.
func newRetrieval(ctx context.Context) (*services.RetrievalService, driven.EmbeddingService, error) {
	embedder, err := newEmbedder(ctx)
	if err != nil {
		return nil, nil, err
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	svc, err := services.NewRetrievalService(services.RetrievalConfig{
		Loader:   newLoader(),
		Chunker:  splitter,
		Embedder: embedder,
		OpenIndex: func() (driven.VectorIndex, error) {
			return indexsqlite.Open(cfg.IndexDir, cfg.Collection,
				embedder.ModelName(), embedder.Dimensions())
		},
		Folder:   cfg.PDFDir,
		LockPath: filepath.Join(cfg.IndexDir, cfg.Collection+".lock"),
	})
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}
	return svc, embedder, nil
}
