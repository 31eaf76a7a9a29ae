// Package services implements the driving port interfaces.
// The retrieval service orchestrates the indexing pipeline
// (load, chunk, embed, store) and answers similarity queries
// through driven ports (adapters).
package services
