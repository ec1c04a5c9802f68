package repository

import (
	"context"

	"workflow-gateway/internal/db"
	"workflow-gateway/internal/domain"
)

type WorkflowRepository interface {
	Create(ctx context.Context, wf domain.Workflow) (domain.Workflow, error)
	GetByID(ctx context.Context, id int64) (domain.Workflow, error)
	List(ctx context.Context) ([]domain.Workflow, error)
}

type PgWorkflowRepository struct {
	db db.DBTX
}

func NewPgWorkflowRepository(conn db.DBTX) *PgWorkflowRepository {
	return &PgWorkflowRepository{db: conn}
}

func (r *PgWorkflowRepository) Create(ctx context.Context, wf domain.Workflow) (domain.Workflow, error) {
	const query = `
		INSERT INTO workflows (name, config_json)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, wf.Name, wf.ConfigJSON).Scan(&wf.ID); err != nil {
		return domain.Workflow{}, err
	}
	return wf, nil
}

func (r *PgWorkflowRepository) GetByID(ctx context.Context, id int64) (domain.Workflow, error) {
	const query = `
		SELECT id, name, config_json
		FROM workflows
		WHERE id = $1
	`
	var wf domain.Workflow
	if err := r.db.QueryRow(ctx, query, id).Scan(&wf.ID, &wf.Name, &wf.ConfigJSON); err != nil {
		return domain.Workflow{}, err
	}
	return wf, nil
}

func (r *PgWorkflowRepository) List(ctx context.Context) ([]domain.Workflow, error) {
	const query = `
		SELECT id, name, config_json
		FROM workflows
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workflows := []domain.Workflow{}
	for rows.Next() {
		var wf domain.Workflow
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.ConfigJSON); err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workflows, nil
}
