package schema

// Turn is one prior exchange in a conversation, carried into the prompt so
// follow-up questions keep their referents.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
