package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflow-gateway/internal/service"
)

type WorkflowHandler struct {
	logger    *zap.Logger
	workflows *service.WorkflowService
}

func NewWorkflowHandler(logger *zap.Logger, workflows *service.WorkflowService) *WorkflowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowHandler{logger: logger, workflows: workflows}
}

// Create maneja POST /workflows.
func (h *WorkflowHandler) Create(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		ConfigJSON string `json:"config_json" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.logger).Warn("invalid create workflow request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "name and config_json are required"})
		return
	}

	wf, err := h.workflows.Create(c.Request.Context(), req.Name, req.ConfigJSON)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wf)
}

// List maneja GET /workflows.
func (h *WorkflowHandler) List(c *gin.Context) {
	list, err := h.workflows.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflows": list})
}

// Get maneja GET /workflows/:id.
func (h *WorkflowHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	wf, err := h.workflows.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

func (h *WorkflowHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkflowServiceNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "workflow storage not configured"})
	case errors.Is(err, service.ErrWorkflowInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "workflow not found"})
	default:
		requestLogger(c, h.logger).Error("workflow request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not process workflow"})
	}
}
