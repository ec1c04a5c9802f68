package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflow-gateway/internal/service"
)

// multipartOverhead cubre boundaries y headers del form además del archivo.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	logger         *zap.Logger
	docs           *service.DocumentService
	limiter        service.UploadLimiter
	maxUploadBytes int64
}

func NewDocumentHandler(logger *zap.Logger, docs *service.DocumentService, limiter service.UploadLimiter, maxUploadBytes int64) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{
		logger:         logger,
		docs:           docs,
		limiter:        limiter,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload maneja POST /upload (campo multipart "file").
func (h *DocumentHandler) Upload(c *gin.Context) {
	log := requestLogger(c, h.logger)

	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "too many uploads, try again later"})
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file too large"})
			return
		}
		log.Warn("invalid upload request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	if !service.IsPDFFilename(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Only PDF files are supported."})
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Error("open upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process PDF: " + err.Error()})
		return
	}
	defer f.Close()

	doc, err := h.docs.Ingest(c.Request.Context(), fh.Filename, f)
	if err != nil {
		var procErr *service.DocumentProcessingError
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Only PDF files are supported."})
		case errors.Is(err, service.ErrDocumentServiceNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "document storage not configured"})
		case errors.As(err, &procErr):
			c.JSON(http.StatusInternalServerError, gin.H{"detail": procErr.Error()})
		default:
			log.Error("upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process PDF: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"content":     doc.Content,
	})
}

// List maneja GET /documents?limit=N.
func (h *DocumentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	docs, err := h.docs.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Get maneja GET /documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentServiceNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "document storage not configured"})
	case errors.Is(err, service.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "document not found"})
	default:
		requestLogger(c, h.logger).Error("document lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not load documents"})
	}
}

// parseID lee :id y responde 400 si no es un entero positivo.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}
