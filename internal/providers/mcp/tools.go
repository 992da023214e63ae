package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/tuskmem/internal/core"
)

const defaultK = 5

type tool interface {
	Definition() mcpproto.Tool
	Handle(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
}

func newTools(source MemorySource) []tool {
	return []tool{
		&archivalSearchTool{source: source},
		&archivalInsertTool{source: source},
		&conversationSearchTool{source: source},
		&statsTool{source: source},
	}
}

func jsonResult(v any) (*mcpproto.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcpproto.NewToolResultText(string(data)), nil
}

type archivalSearchTool struct {
	source MemorySource
}

func (t *archivalSearchTool) Definition() mcpproto.Tool {
	return mcpproto.NewTool("archival_memory_search",
		mcpproto.WithDescription("Search archival memory. Indexed memory ranks by embedding distance, otherwise entries containing the query are returned in insertion order."),
		mcpproto.WithString("query", mcpproto.Required(), mcpproto.Description("Text to search for")),
		mcpproto.WithNumber("k", mcpproto.Description("Maximum number of results"), mcpproto.DefaultNumber(defaultK)),
		mcpproto.WithReadOnlyHintAnnotation(true),
	)
}

func (t *archivalSearchTool) Handle(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	results, err := t.source.Memory().QueryArchival(ctx, core.ArchivalQuery{Text: query, K: req.GetInt("k", defaultK)})
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	if results == nil {
		results = []core.ArchivalResult{}
	}
	return jsonResult(results)
}

type archivalInsertTool struct {
	source MemorySource
}

func (t *archivalInsertTool) Definition() mcpproto.Tool {
	return mcpproto.NewTool("archival_memory_insert",
		mcpproto.WithDescription("Add an entry to archival memory. Only memories without a preloaded or indexed archive accept new entries."),
		mcpproto.WithString("content", mcpproto.Required(), mcpproto.Description("Text to remember")),
	)
}

func (t *archivalInsertTool) Handle(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	if err := t.source.Memory().InsertArchival(ctx, content); err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return mcpproto.NewToolResultText("ok"), nil
}

type conversationSearchTool struct {
	source MemorySource
}

func (t *conversationSearchTool) Definition() mcpproto.Tool {
	return mcpproto.NewTool("conversation_search",
		mcpproto.WithDescription("Search the full conversation history, newest first, including messages no longer in the working window."),
		mcpproto.WithString("query", mcpproto.Required(), mcpproto.Description("Case-insensitive text to search for")),
		mcpproto.WithNumber("k", mcpproto.Description("Maximum number of messages"), mcpproto.DefaultNumber(defaultK)),
		mcpproto.WithReadOnlyHintAnnotation(true),
	)
}

func (t *conversationSearchTool) Handle(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	msgs := t.source.Memory().SearchRecall(query, req.GetInt("k", defaultK))
	if msgs == nil {
		msgs = []core.Message{}
	}
	return jsonResult(msgs)
}

type statsTool struct {
	source MemorySource
}

func (t *statsTool) Definition() mcpproto.Tool {
	return mcpproto.NewTool("memory_stats",
		mcpproto.WithDescription("Report the memory kind and the sizes of the working window, recall log and archival store."),
		mcpproto.WithReadOnlyHintAnnotation(true),
	)
}

func (t *statsTool) Handle(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	return jsonResult(t.source.Memory().Stats())
}
