// Package config loads brochure-search configuration from an optional TOML
// file with environment variable overrides. Every setting has a hardcoded
// default so the tool runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment overrides. The path variables mirror the deployment knobs of
// the hosted CRM, which relocates both directories on its render targets.
const (
	EnvPDFPath        = "BROCHURE_PDF_PATH"
	EnvIndexPath      = "BROCHURE_INDEX_PATH"
	EnvEmbeddingURL   = "BROCHURE_EMBEDDING_URL"
	EnvEmbeddingModel = "BROCHURE_EMBEDDING_MODEL"
	EnvOpenAIKey      = "OPENAI_API_KEY"
)

// Default values.
const (
	DefaultPDFDir       = "pdfs"
	DefaultIndexDir     = "brochure_db"
	DefaultCollection   = "brochure_vectors"
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
	DefaultTopK         = 3
	DefaultListenAddr   = ":8080"
)

// Embedding holds embedding service settings.
type Embedding struct {
	// Provider selects the adapter: "ollama" (default) or "openai".
	Provider string `toml:"provider"`

	// BaseURL is the service endpoint. Empty uses the adapter default.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name. Empty uses the adapter default.
	Model string `toml:"model"`

	// Dimensions is the vector size. Zero uses the adapter default.
	Dimensions int `toml:"dimensions"`

	// APIKey authenticates against hosted providers.
	APIKey string `toml:"api_key"`

	// RequestsPerSecond throttles batch embedding calls.
	// Zero disables throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Config is the full application configuration.
type Config struct {
	// PDFDir is the folder holding brochure PDFs.
	PDFDir string `toml:"pdf_dir"`

	// IndexDir is the persistence directory for the vector index.
	IndexDir string `toml:"index_dir"`

	// Collection is the named collection inside IndexDir.
	Collection string `toml:"collection"`

	// ChunkSize and ChunkOverlap configure the splitter, in characters.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`

	// TopK is the default result count for queries.
	TopK int `toml:"top_k"`

	// ListenAddr is the HTTP search API address.
	ListenAddr string `toml:"listen_addr"`

	// Embedding configures the embedding service.
	Embedding Embedding `toml:"embedding"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		PDFDir:       DefaultPDFDir,
		IndexDir:     DefaultIndexDir,
		Collection:   DefaultCollection,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		TopK:         DefaultTopK,
		ListenAddr:   DefaultListenAddr,
		Embedding:    Embedding{Provider: "ollama"},
	}
}

// Load reads the TOML file at path on top of the defaults, then applies
// environment overrides. An empty path skips the file entirely; a missing
// file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPDFPath); v != "" {
		c.PDFDir = v
	}
	if v := os.Getenv(EnvIndexPath); v != "" {
		c.IndexDir = v
	}
	if v := os.Getenv(EnvEmbeddingURL); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" && c.Embedding.APIKey == "" {
		c.Embedding.APIKey = v
	}
}

// Validate checks settings that would otherwise fail deep inside the
// pipeline. Chunking limits are checked again by the splitter; doing it
// here reports misconfiguration before any extraction work starts.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.ChunkOverlap, c.ChunkSize)
	}
	if c.Collection == "" {
		return fmt.Errorf("collection must not be empty")
	}
	switch c.Embedding.Provider {
	case "", "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	return nil
}

// String renders the effective configuration for verbose logs.
func (c *Config) String() string {
	return fmt.Sprintf("pdf_dir=%s index_dir=%s collection=%s chunk=%d/%d top_k=%s provider=%s",
		c.PDFDir, c.IndexDir, c.Collection, c.ChunkSize, c.ChunkOverlap,
		strconv.Itoa(c.TopK), c.Embedding.Provider)
}
