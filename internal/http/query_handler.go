package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/service"
)

// QueryHandler expone el forwarder de consultas al LLM.
type QueryHandler struct {
	logger   *zap.Logger
	querySvc *service.QueryService
	chatLogs *service.ChatLogService
}

func NewQueryHandler(logger *zap.Logger, querySvc *service.QueryService, chatLogs *service.ChatLogService) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{
		logger:   logger,
		querySvc: querySvc,
		chatLogs: chatLogs,
	}
}

// Query maneja POST /query.
func (h *QueryHandler) Query(c *gin.Context) {
	log := requestLogger(c, h.logger)

	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid query request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "user_query is required"})
		return
	}

	out := h.querySvc.Resolve(c.Request.Context(), req)
	switch out.Kind {
	case service.OutcomeAnswered, service.OutcomeDegraded:
		h.record(c, log, req, out.Response)
		c.JSON(http.StatusOK, domain.QueryResponse{Response: out.Response})
	case service.OutcomeFailed:
		log.Error("query failed", zap.String("failure", string(out.Failure)), zap.Error(out.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": out.Err.Error()})
	default:
		log.Error("unknown query outcome", zap.String("kind", string(out.Kind)))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "unknown query outcome"})
	}
}

// record guarda el intercambio; una falla acá nunca cambia la respuesta.
func (h *QueryHandler) record(c *gin.Context, log *zap.Logger, req domain.QueryRequest, response string) {
	if !h.chatLogs.Enabled() {
		return
	}
	if _, err := h.chatLogs.Record(c.Request.Context(), req.UserQuery, response, req.WorkflowID); err != nil {
		log.Warn("chatlog record failed", zap.Error(err))
	}
}
