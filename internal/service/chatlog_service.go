package service

import (
	"context"
	"errors"
	"strings"

	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/repository"
)

const (
	defaultChatLogLimit = 20
	maxChatLogLimit     = 200
)

var ErrChatLogServiceNotConfigured = errors.New("chatlog service not configured")

// ChatLogService guarda el historial de consultas respondidas.
type ChatLogService struct {
	repo repository.ChatLogRepository
}

func NewChatLogService(repo repository.ChatLogRepository) *ChatLogService {
	return &ChatLogService{repo: repo}
}

// Enabled reporta si hay persistencia detrás del servicio.
func (s *ChatLogService) Enabled() bool {
	return s != nil && s.repo != nil
}

func (s *ChatLogService) Record(ctx context.Context, userQuery, response string, workflowID *int64) (domain.ChatLog, error) {
	if !s.Enabled() {
		return domain.ChatLog{}, ErrChatLogServiceNotConfigured
	}
	return s.repo.Create(ctx, domain.ChatLog{
		UserQuery:  strings.TrimSpace(userQuery),
		Response:   response,
		WorkflowID: workflowID,
	})
}

// ListRecent acota limit a [1, 200]; 0 o negativo usa 20.
func (s *ChatLogService) ListRecent(ctx context.Context, limit int) ([]domain.ChatLog, error) {
	if !s.Enabled() {
		return nil, ErrChatLogServiceNotConfigured
	}
	if limit <= 0 {
		limit = defaultChatLogLimit
	}
	if limit > maxChatLogLimit {
		limit = maxChatLogLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
