package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflow-gateway/internal/service"
)

type ChatLogHandler struct {
	logger   *zap.Logger
	chatLogs *service.ChatLogService
}

func NewChatLogHandler(logger *zap.Logger, chatLogs *service.ChatLogService) *ChatLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatLogHandler{logger: logger, chatLogs: chatLogs}
}

// List maneja GET /chatlogs?limit=N.
func (h *ChatLogHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.chatLogs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrChatLogServiceNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "chatlog storage not configured"})
			return
		}
		requestLogger(c, h.logger).Error("list chatlogs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not load chatlogs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chatlogs": logs})
}
