package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"workflow-gateway/internal/domain"
)

type mockWorkflowRepo struct {
	created domain.Workflow
	getErr  error
	list    []domain.Workflow
}

func (m *mockWorkflowRepo) Create(_ context.Context, wf domain.Workflow) (domain.Workflow, error) {
	wf.ID = 11
	m.created = wf
	return wf, nil
}

func (m *mockWorkflowRepo) GetByID(_ context.Context, id int64) (domain.Workflow, error) {
	if m.getErr != nil {
		return domain.Workflow{}, m.getErr
	}
	return domain.Workflow{ID: id, Name: "wf", ConfigJSON: "{}"}, nil
}

func (m *mockWorkflowRepo) List(_ context.Context) ([]domain.Workflow, error) {
	return m.list, nil
}

func TestWorkflowServiceCreate(t *testing.T) {
	repo := &mockWorkflowRepo{}
	svc := NewWorkflowService(repo)

	wf, err := svc.Create(context.Background(), "  support bot ", ` {"nodes":[{"type":"llm"}]} `)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if wf.ID != 11 || repo.created.Name != "support bot" {
		t.Fatalf("unexpected workflow %+v", repo.created)
	}
	if repo.created.ConfigJSON != `{"nodes":[{"type":"llm"}]}` {
		t.Fatalf("expected trimmed config, got %q", repo.created.ConfigJSON)
	}
}

func TestWorkflowServiceCreate_Validation(t *testing.T) {
	svc := NewWorkflowService(&mockWorkflowRepo{})

	cases := []struct {
		name   string
		config string
	}{
		{name: "", config: "{}"},
		{name: "wf", config: ""},
		{name: "wf", config: "{nodes: 1}"},
		{name: "wf", config: "[1, 2]"},
		{name: "wf", config: `{"nodes": "none"}`},
		{name: "wf", config: `{"nodes": [{"type": 3}]}`},
	}
	for i, c := range cases {
		if _, err := svc.Create(context.Background(), c.name, c.config); !errors.Is(err, ErrWorkflowInvalidInput) {
			t.Fatalf("case %d expected ErrWorkflowInvalidInput, got %v", i, err)
		}
	}
}

func TestWorkflowServiceGet(t *testing.T) {
	svc := NewWorkflowService(&mockWorkflowRepo{getErr: pgx.ErrNoRows})
	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, ErrWorkflowNotFound) {
		t.Fatalf("expected ErrWorkflowNotFound, got %v", err)
	}

	boom := errors.New("boom")
	svc = NewWorkflowService(&mockWorkflowRepo{getErr: boom})
	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestWorkflowServiceNotConfigured(t *testing.T) {
	svc := NewWorkflowService(nil)
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrWorkflowServiceNotConfigured) {
		t.Fatalf("expected ErrWorkflowServiceNotConfigured, got %v", err)
	}
}
