package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflow-gateway/internal/db"
)

// HealthHandler sirve los endpoints estáticos y de salud; ninguno llama al LLM.
type HealthHandler struct {
	logger *zap.Logger
	db     db.Pinger
}

func NewHealthHandler(logger *zap.Logger, pinger db.Pinger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{logger: logger, db: pinger}
}

// Root maneja GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "No-Code Workflow Builder Backend running."})
}

// Test maneja GET /test.
func (h *HealthHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"response": "Backend is working! This is a test response without the LLM."})
}

// TestQuery maneja POST /test-query; ignora el body.
func (h *HealthHandler) TestQuery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"response": "Test response: Your query was received successfully by the backend!"})
}

// Healthz maneja GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx, h.db); err != nil {
		requestLogger(c, h.logger).Warn("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
