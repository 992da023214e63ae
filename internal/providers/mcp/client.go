package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/tuskmem/internal/core"
)

// Client calls memory tools on a server running in the same process.
type Client struct {
	cli *client.Client
}

func NewInProcessClient(ctx context.Context, s *server.MCPServer) (*Client, error) {
	cli, err := client.NewInProcessClient(s)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err = cli.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{
		Name:    core.TuskName,
		Version: core.TaskVersion,
	}

	if _, err := cli.Initialize(ctx, req); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	return &Client{cli: cli}, nil
}

func (c *Client) ListTools(ctx context.Context) ([]string, error) {
	resp, err := c.cli.ListTools(ctx, mcpproto.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Tools))
	for i, t := range resp.Tools {
		names[i] = t.Name
	}
	return names, nil
}

// Call invokes a tool and returns its text output. A tool-level failure is
// returned as an error carrying the tool's message.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.cli.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			sb.WriteString(text.Text)
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			sb.WriteString(textPtr.Text)
		}
	}

	if res.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, sb.String())
	}
	return sb.String(), nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}
