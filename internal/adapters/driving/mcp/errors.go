// Package mcp provides an MCP (Model Context Protocol) server adapter for Dishsafe.
// It lets AI assistants look up restaurants and read a dish's reviews with
// their safety annotations. The server is read-only; reviews are written
// through the CLI.
package mcp

import "errors"

// ErrMissingSafetyService is returned when the safety service is not provided.
var ErrMissingSafetyService = errors.New("mcp: safety service is required")
