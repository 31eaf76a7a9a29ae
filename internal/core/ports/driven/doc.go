// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - EmbeddingService: generates vector embeddings (Ollama, OpenAI)
//   - VectorIndex: durable vector storage and cosine similarity search
//   - Extractor: per-file text extraction strategy (pdftotext, pure Go)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
