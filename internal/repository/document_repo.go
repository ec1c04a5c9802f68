package repository

import (
	"context"

	"workflow-gateway/internal/db"
	"workflow-gateway/internal/domain"
)

// DocumentRepository define el contrato de persistencia para documentos.
type DocumentRepository interface {
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)
	GetByID(ctx context.Context, id int64) (domain.Document, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Document, error)
}

// PgDocumentRepository implementa DocumentRepository sobre Postgres.
type PgDocumentRepository struct {
	db db.DBTX
}

func NewPgDocumentRepository(conn db.DBTX) *PgDocumentRepository {
	return &PgDocumentRepository{db: conn}
}

// Create inserta el documento y devuelve el registro con id y upload_date asignados.
func (r *PgDocumentRepository) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	const query = `
		INSERT INTO documents (filename, content)
		VALUES ($1, $2)
		RETURNING id, upload_date
	`
	err := r.db.QueryRow(ctx, query, doc.Filename, doc.Content).Scan(&doc.ID, &doc.UploadDate)
	if err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (r *PgDocumentRepository) GetByID(ctx context.Context, id int64) (domain.Document, error) {
	const query = `
		SELECT id, filename, content, upload_date
		FROM documents
		WHERE id = $1
	`
	var d domain.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Filename,
		&d.Content,
		&d.UploadDate,
	)
	if err != nil {
		return domain.Document{}, err
	}
	return d, nil
}

func (r *PgDocumentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Document, error) {
	const query = `
		SELECT id, filename, content, upload_date
		FROM documents
		ORDER BY upload_date DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.Content, &d.UploadDate); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
