package domain

import "time"

// ChatLog registra una pregunta y la respuesta devuelta al usuario.
type ChatLog struct {
	ID         int64     `json:"id"`
	UserQuery  string    `json:"user_query"`
	Response   string    `json:"response"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID *int64    `json:"workflow_id,omitempty"`
}
