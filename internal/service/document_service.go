package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/metrics"
	"workflow-gateway/internal/pdf"
	"workflow-gateway/internal/repository"
)

const defaultDocumentListLimit = 50

var (
	ErrDocumentServiceNotConfigured = errors.New("document service not configured")
	ErrUnsupportedFileType          = errors.New("unsupported file type")
	ErrDocumentNotFound             = errors.New("document not found")
)

// DocumentProcessingError indica que la extracción o la persistencia fallaron.
type DocumentProcessingError struct {
	Err error
}

func (e *DocumentProcessingError) Error() string {
	return fmt.Sprintf("Failed to process PDF: %v", e.Err)
}

func (e *DocumentProcessingError) Unwrap() error {
	return e.Err
}

// DocumentService extrae el texto de los PDF subidos y lo guarda.
type DocumentService struct {
	repo      repository.DocumentRepository
	extractor pdf.Extractor
	logger    *zap.Logger
}

func NewDocumentService(repo repository.DocumentRepository, extractor pdf.Extractor, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		repo:      repo,
		extractor: extractor,
		logger:    logger,
	}
}

// IsPDFFilename compara la extensión sin distinguir mayúsculas.
func IsPDFFilename(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".pdf")
}

// Ingest valida la extensión, extrae el texto página por página y persiste el documento.
func (s *DocumentService) Ingest(ctx context.Context, filename string, r io.Reader) (domain.Document, error) {
	if s == nil || s.repo == nil || s.extractor == nil {
		return domain.Document{}, ErrDocumentServiceNotConfigured
	}
	filename = strings.TrimSpace(filename)
	if !IsPDFFilename(filename) {
		metrics.ObserveUpload("unsupported")
		return domain.Document{}, ErrUnsupportedFileType
	}

	text, err := s.extractor.ExtractText(r)
	if err != nil {
		metrics.ObserveUpload("extract_error")
		s.logger.Warn("pdf extraction failed", zap.String("filename", filename), zap.Error(err))
		return domain.Document{}, &DocumentProcessingError{Err: err}
	}

	doc, err := s.repo.Create(ctx, domain.Document{Filename: filename, Content: text})
	if err != nil {
		metrics.ObserveUpload("store_error")
		s.logger.Error("document persist failed", zap.String("filename", filename), zap.Error(err))
		return domain.Document{}, &DocumentProcessingError{Err: err}
	}

	metrics.ObserveUpload("ok")
	s.logger.Info("document ingested",
		zap.Int64("document_id", doc.ID),
		zap.String("filename", filename),
		zap.Int("content_len", len(text)),
	)
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, id int64) (domain.Document, error) {
	if s == nil || s.repo == nil {
		return domain.Document{}, ErrDocumentServiceNotConfigured
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List devuelve los documentos más recientes; limit fuera de rango usa el default.
func (s *DocumentService) List(ctx context.Context, limit int) ([]domain.Document, error) {
	if s == nil || s.repo == nil {
		return nil, ErrDocumentServiceNotConfigured
	}
	if limit <= 0 || limit > defaultDocumentListLimit {
		limit = defaultDocumentListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
