// ABOUTME: MCP tool definitions and registration for the knowledge base
// ABOUTME: Defines JSON schemas for all 6 tools over the pipeline
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/satchellabs/satchel/internal/core"
)

// RegisterTools registers all knowledge base tools with the server.
func RegisterTools(server *mcpserver.MCPServer, pipeline *core.Pipeline) *Handlers {
	handlers := &Handlers{pipeline: pipeline}

	// 1. ingest_document - Add a file or directory to the knowledge base
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a text or Markdown file (or a directory of them) into the knowledge base. Files are chunked, embedded, and stored for retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the file or directory to ingest",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.IngestDocument)

	// 2. ask_knowledge_base - Answer a question using retrieved context
	server.AddTool(mcp.Tool{
		Name:        "ask_knowledge_base",
		Description: "Answer a question using the ingested documents. Retrieves the most relevant chunks and generates a grounded answer with sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the knowledge base",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskKnowledgeBase)

	// 3. search_knowledge_base - Raw reranked search results
	server.AddTool(mcp.Tool{
		Name:        "search_knowledge_base",
		Description: "Search the knowledge base and return the reranked matching chunks without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchKnowledgeBase)

	// 4. list_documents - List ingested documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List the filenames of all documents currently in the knowledge base.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	// 5. remove_document - Remove one document's chunks
	server.AddTool(mcp.Tool{
		Name:        "remove_document",
		Description: "Remove all chunks of a document from the knowledge base by filename. Removing a filename that is not indexed is a no-op.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Filename of the document to remove (as shown by list_documents)",
				},
			},
			Required: []string{"filename"},
		},
	}, handlers.RemoveDocument)

	// 6. knowledge_base_stats - Collection statistics
	server.AddTool(mcp.Tool{
		Name:        "knowledge_base_stats",
		Description: "Get statistics about the knowledge base: chunk count, document count, collection name, and embedding model.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.KnowledgeBaseStats)

	return handlers
}
