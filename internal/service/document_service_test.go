package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"workflow-gateway/internal/domain"
)

type mockDocumentRepo struct {
	created   domain.Document
	createErr error
	getDoc    domain.Document
	getErr    error
	listLimit int
	listData  []domain.Document
}

func (m *mockDocumentRepo) Create(_ context.Context, doc domain.Document) (domain.Document, error) {
	if m.createErr != nil {
		return domain.Document{}, m.createErr
	}
	doc.ID = 1
	doc.UploadDate = time.Now().UTC()
	m.created = doc
	return doc, nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, _ int64) (domain.Document, error) {
	return m.getDoc, m.getErr
}

func (m *mockDocumentRepo) ListRecent(_ context.Context, limit int) ([]domain.Document, error) {
	m.listLimit = limit
	return m.listData, nil
}

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(r io.Reader) (string, error) {
	s.calls++
	_, _ = io.ReadAll(r)
	return s.text, s.err
}

func TestDocumentServiceIngest_StoresExtractedText(t *testing.T) {
	repo := &mockDocumentRepo{}
	ext := &stubExtractor{text: "page one\npage two"}
	svc := NewDocumentService(repo, ext, nil)

	doc, err := svc.Ingest(context.Background(), " Report.PDF ", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.ID != 1 || doc.Content != "page one\npage two" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if repo.created.Filename != "Report.PDF" {
		t.Fatalf("expected trimmed filename, got %q", repo.created.Filename)
	}
}

func TestDocumentServiceIngest_RejectsNonPDF(t *testing.T) {
	repo := &mockDocumentRepo{}
	ext := &stubExtractor{}
	svc := NewDocumentService(repo, ext, nil)

	for _, name := range []string{"notes.txt", "pdf", "archive.pdf.zip", ""} {
		if _, err := svc.Ingest(context.Background(), name, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFileType) {
			t.Fatalf("%q: expected ErrUnsupportedFileType, got %v", name, err)
		}
	}
	if ext.calls != 0 {
		t.Fatalf("expected extractor not called, got %d", ext.calls)
	}
}

func TestDocumentServiceIngest_ProcessingErrors(t *testing.T) {
	t.Run("extraction", func(t *testing.T) {
		svc := NewDocumentService(&mockDocumentRepo{}, &stubExtractor{err: errors.New("malformed xref")}, nil)
		_, err := svc.Ingest(context.Background(), "a.pdf", strings.NewReader("x"))
		var pe *DocumentProcessingError
		if !errors.As(err, &pe) {
			t.Fatalf("expected DocumentProcessingError, got %v", err)
		}
		if err.Error() != "Failed to process PDF: malformed xref" {
			t.Fatalf("unexpected detail %q", err.Error())
		}
	})

	t.Run("persistence", func(t *testing.T) {
		dbErr := errors.New("db down")
		svc := NewDocumentService(&mockDocumentRepo{createErr: dbErr}, &stubExtractor{text: "ok"}, nil)
		_, err := svc.Ingest(context.Background(), "a.pdf", strings.NewReader("x"))
		if !errors.Is(err, dbErr) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}

func TestDocumentServiceNotConfigured(t *testing.T) {
	var svc *DocumentService
	if _, err := svc.Ingest(context.Background(), "a.pdf", strings.NewReader("x")); !errors.Is(err, ErrDocumentServiceNotConfigured) {
		t.Fatalf("expected ErrDocumentServiceNotConfigured, got %v", err)
	}
	if _, err := NewDocumentService(nil, &stubExtractor{}, nil).List(context.Background(), 5); !errors.Is(err, ErrDocumentServiceNotConfigured) {
		t.Fatalf("expected ErrDocumentServiceNotConfigured, got %v", err)
	}
}

func TestDocumentServiceGet_NotFound(t *testing.T) {
	svc := NewDocumentService(&mockDocumentRepo{getErr: pgx.ErrNoRows}, &stubExtractor{}, nil)
	if _, err := svc.Get(context.Background(), 5); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentServiceList_ClampsLimit(t *testing.T) {
	repo := &mockDocumentRepo{}
	svc := NewDocumentService(repo, &stubExtractor{}, nil)

	cases := map[int]int{0: 50, -3: 50, 10: 10, 500: 50}
	for in, want := range cases {
		if _, err := svc.List(context.Background(), in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo.listLimit != want {
			t.Fatalf("limit %d: expected %d, got %d", in, want, repo.listLimit)
		}
	}
}
