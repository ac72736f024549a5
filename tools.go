package govrag

import "encoding/json"

// Raw JSON schemas for the MCP tool surface.

// GetAskSchema describes the ask tool input.
func GetAskSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"question": {
				"type": "string",
				"description": "Natural language question about licensing, investment, or public services in Central Java"
			},
			"history": {
				"type": "array",
				"description": "Prior conversation turns, oldest first",
				"items": {
					"type": "object",
					"properties": {
						"role": {"type": "string", "enum": ["user", "assistant"]},
						"content": {"type": "string"}
					},
					"required": ["role", "content"]
				}
			}
		},
		"required": ["question"]
	}`)
}

// GetSearchSchema describes the search-chunks tool input.
func GetSearchSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Natural language search query"
			},
			"top_k": {
				"type": "integer",
				"description": "Maximum number of chunks to return",
				"minimum": 1,
				"maximum": 50
			}
		},
		"required": ["query"]
	}`)
}

// GetCreateChunkFromTextSchema describes the create-chunks-from-text tool input.
func GetCreateChunkFromTextSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {
				"type": "string",
				"description": "Raw document text to split, embed, and store"
			},
			"source": {
				"type": "string",
				"description": "Source label recorded in chunk metadata, e.g. a file name"
			}
		},
		"required": ["text", "source"]
	}`)
}

// GetListChunksSchema describes the list-chunks tool input.
func GetListChunksSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"limit": {
				"type": "integer",
				"description": "Maximum number of chunks to list",
				"minimum": 1,
				"maximum": 500
			}
		}
	}`)
}

// GetDeleteChunkSchema describes the delete-chunk tool input.
func GetDeleteChunkSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {
				"type": "string",
				"description": "Chunk identifier as returned by search-chunks or list-chunks"
			}
		},
		"required": ["id"]
	}`)
}
