// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the brochure index. It lets AI assistants search indexed brochures the
// same way the HTTP API and CLI do.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
