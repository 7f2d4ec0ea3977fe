// ABOUTME: MCP tool handler implementations for the knowledge base server
// ABOUTME: Thin adapters from tool arguments to pipeline operations
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/satchellabs/satchel/internal/core"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	pipeline *core.Pipeline
}

// IngestDocument handles the ingest_document tool.
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access %s: %v", path, err)), nil
	}

	var result core.IngestResult
	if info.IsDir() {
		result = h.pipeline.IngestDirectory(path)
	} else {
		result = h.pipeline.IngestFile(path)
	}
	return jsonResult(result)
}

// AskKnowledgeBase handles the ask_knowledge_base tool.
func (h *Handlers) AskKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	result := h.pipeline.Query(question, nil)
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// SearchKnowledgeBase handles the search_knowledge_base tool.
func (h *Handlers) SearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	result := h.pipeline.Search(query, maxResults)
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// ListDocuments handles the list_documents tool.
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := h.pipeline.ListDocuments()
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// RemoveDocument handles the remove_document tool.
func (h *Handlers) RemoveDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("filename argument is required and must be a string"), nil
	}

	result := h.pipeline.Remove(filename)
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// KnowledgeBaseStats handles the knowledge_base_stats tool.
func (h *Handlers) KnowledgeBaseStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := h.pipeline.Stats()
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
