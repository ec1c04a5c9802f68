package domain

import "encoding/json"

// QueryRequest es el payload de POST /query.
type QueryRequest struct {
	UserQuery    string          `json:"user_query" binding:"required"`
	Context      json.RawMessage `json:"context,omitempty"`
	CustomPrompt string          `json:"custom_prompt,omitempty"`
	WorkflowID   *int64          `json:"workflow_id,omitempty"`
}

// QueryResponse siempre lleva texto, incluso en respuestas degradadas.
type QueryResponse struct {
	Response string `json:"response"`
}
