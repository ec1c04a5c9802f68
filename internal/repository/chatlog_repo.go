package repository

import (
	"context"

	"workflow-gateway/internal/db"
	"workflow-gateway/internal/domain"
)

// ChatLogRepository persiste el historial de preguntas y respuestas.
type ChatLogRepository interface {
	Create(ctx context.Context, entry domain.ChatLog) (domain.ChatLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ChatLog, error)
}

type PgChatLogRepository struct {
	db db.DBTX
}

func NewPgChatLogRepository(conn db.DBTX) *PgChatLogRepository {
	return &PgChatLogRepository{db: conn}
}

func (r *PgChatLogRepository) Create(ctx context.Context, entry domain.ChatLog) (domain.ChatLog, error) {
	const query = `
		INSERT INTO chatlogs (user_query, response, workflow_id)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`

	var workflowID interface{}
	if entry.WorkflowID != nil {
		workflowID = *entry.WorkflowID
	}

	err := r.db.QueryRow(ctx, query, entry.UserQuery, entry.Response, workflowID).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return domain.ChatLog{}, err
	}
	return entry, nil
}

func (r *PgChatLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.ChatLog, error) {
	const query = `
		SELECT id, user_query, response, timestamp, workflow_id
		FROM chatlogs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.ChatLog{}
	for rows.Next() {
		var entry domain.ChatLog
		var workflowID *int64
		if err := rows.Scan(&entry.ID, &entry.UserQuery, &entry.Response, &entry.Timestamp, &workflowID); err != nil {
			return nil, err
		}
		entry.WorkflowID = workflowID
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
