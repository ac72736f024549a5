package govrag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jatengdev/govrag/schema"
)

// HandleAsk answers a question through the full pipeline.
func HandleAsk(e *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var history []schema.Turn
		if raw, ok := req.GetArguments()["history"]; ok && raw != nil {
			data, err := json.Marshal(raw)
			if err == nil {
				err = json.Unmarshal(data, &history)
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid history: %v", err)), nil
			}
		}

		ans, err := e.Ask(ctx, question, history)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
		}
		return jsonResult(ans)
	}
}

// HandleSearch runs retrieval plus rerank without the gate or generation.
func HandleSearch(e *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topK := req.GetInt("top_k", 0)

		ranked, err := e.SearchChunks(ctx, query, topK)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		type hit struct {
			ID          string  `json:"id"`
			Source      string  `json:"source,omitempty"`
			Score       float64 `json:"score"`
			RerankScore float64 `json:"rerank_score"`
			Content     string  `json:"content"`
		}
		hits := make([]hit, 0, len(ranked))
		for _, r := range ranked {
			hits = append(hits, hit{
				ID:          r.Document.ID,
				Source:      r.Document.Source(),
				Score:       r.Score,
				RerankScore: r.RerankScore,
				Content:     r.Document.Content,
			})
		}
		return jsonResult(map[string]any{"total": len(hits), "results": hits})
	}
}

// HandleCreateChunkFromText ingests raw text into the store.
func HandleCreateChunkFromText(e *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, err := req.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ids, err := e.IngestText(ctx, text, source)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"created": len(ids), "ids": ids})
	}
}

// HandleListChunks lists stored chunks.
func HandleListChunks(e *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 50)

		docs, err := e.ListChunks(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}

		type row struct {
			ID      string `json:"id"`
			Source  string `json:"source,omitempty"`
			Content string `json:"content"`
		}
		rows := make([]row, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, row{ID: d.ID, Source: d.Source(), Content: d.Content})
		}
		return jsonResult(map[string]any{"total": len(rows), "chunks": rows})
	}
}

// HandleDeleteChunk removes one chunk by ID.
func HandleDeleteChunk(e *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := e.DeleteChunk(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted chunk %s", id)), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
