package govrag

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "1.0.0"

// NewServer builds the MCP server exposing the pipeline and the chunk
// management tools.
func NewServer(serverName string, e *Engine) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		Version,
		server.WithInstructions("Grounded Q&A over official Central Java public-service documents, with chunk management for the underlying knowledge base"),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("ask", "Answer a question about licensing, investment, and public services in Central Java, grounded in official documents with source attributions and a confidence tier", GetAskSchema()),
		HandleAsk(e),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("search-chunks", "Perform semantic search across knowledge chunks using a natural language query", GetSearchSchema()),
		HandleSearch(e),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("create-chunks-from-text", "Split input text into chunks, embed them, and store them in the knowledge base", GetCreateChunkFromTextSchema()),
		HandleCreateChunkFromText(e),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-chunks", "List knowledge chunks stored in the active namespace", GetListChunksSchema()),
		HandleListChunks(e),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("delete-chunk", "Remove a knowledge chunk by its identifier", GetDeleteChunkSchema()),
		HandleDeleteChunk(e),
	)

	return s
}
