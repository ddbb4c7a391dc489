// Package mcp provides an MCP (Model Context Protocol) server adapter for fieldtriage.
// It lets AI assistants and agent frontends submit questions to the triage
// pipeline and browse the policy corpus.
package mcp

import "errors"

// ErrMissingTriageService is returned when the triage service is not provided.
var ErrMissingTriageService = errors.New("mcp: triage service is required")
