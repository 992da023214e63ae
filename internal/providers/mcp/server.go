// Package mcp serves an agent's memory to MCP clients.
package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const instructions = "Read access to the memory of a " + core.TuskName + " agent. " +
	"Use archival_memory_search for long-term facts and conversation_search for past messages."

// MemorySource hands out the manager currently in use. It is consulted on
// every call so a restored or reset memory is picked up.
type MemorySource interface {
	Memory() core.PersistenceManager
}

func NewServer(source MemorySource) *server.MCPServer {
	s := server.NewMCPServer(
		core.TuskName,
		core.TaskVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range newTools(source) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// ServeStdio runs the server over the given streams until ctx is done or
// the input is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	log.FromCtx(ctx).Info().Msg("serving memory over mcp stdio")
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
