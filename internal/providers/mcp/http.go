package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const shutdownGrace = 5 * time.Second

// HTTPService serves the memory tools over streamable HTTP next to a
// running session.
type HTTPService struct {
	addr string
	http *server.StreamableHTTPServer
}

func NewHTTPService(s *server.MCPServer, addr string) *HTTPService {
	return &HTTPService{
		addr: addr,
		http: server.NewStreamableHTTPServer(s),
	}
}

func (h *HTTPService) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", h.addr).Msg("serving memory over mcp http")
	if err := h.http.Start(h.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown is usually called once the session context is already done, so
// in-flight requests get a grace period of their own.
func (h *HTTPService) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()
	return h.http.Shutdown(ctx)
}
