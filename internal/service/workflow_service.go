package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xeipuuv/gojsonschema"

	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/repository"
)

var (
	ErrWorkflowServiceNotConfigured = errors.New("workflow service not configured")
	ErrWorkflowInvalidInput         = errors.New("workflow invalid input")
	ErrWorkflowNotFound             = errors.New("workflow not found")
)

// workflowConfigSchema acota lo mínimo que el editor visual necesita leer de vuelta.
const workflowConfigSchema = `{
	"type": "object",
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"id": {"type": "string"}, "type": {"type": "string"}}
			}
		},
		"edges": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var workflowSchemaLoader = gojsonschema.NewStringLoader(workflowConfigSchema)

// validateWorkflowConfig exige JSON válido con forma de objeto.
func validateWorkflowConfig(configJSON string) error {
	if !json.Valid([]byte(configJSON)) {
		return fmt.Errorf("%w: config_json must be valid JSON", ErrWorkflowInvalidInput)
	}
	result, err := gojsonschema.Validate(workflowSchemaLoader, gojsonschema.NewStringLoader(configJSON))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWorkflowInvalidInput, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: config_json %s", ErrWorkflowInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

type WorkflowService struct {
	repo repository.WorkflowRepository
}

func NewWorkflowService(repo repository.WorkflowRepository) *WorkflowService {
	return &WorkflowService{repo: repo}
}

// Create exige nombre y un config_json que sea un objeto JSON.
func (s *WorkflowService) Create(ctx context.Context, name, configJSON string) (domain.Workflow, error) {
	if s == nil || s.repo == nil {
		return domain.Workflow{}, ErrWorkflowServiceNotConfigured
	}
	name = strings.TrimSpace(name)
	configJSON = strings.TrimSpace(configJSON)
	if name == "" {
		return domain.Workflow{}, fmt.Errorf("%w: name is required", ErrWorkflowInvalidInput)
	}
	if err := validateWorkflowConfig(configJSON); err != nil {
		return domain.Workflow{}, err
	}
	return s.repo.Create(ctx, domain.Workflow{Name: name, ConfigJSON: configJSON})
}

func (s *WorkflowService) Get(ctx context.Context, id int64) (domain.Workflow, error) {
	if s == nil || s.repo == nil {
		return domain.Workflow{}, ErrWorkflowServiceNotConfigured
	}
	wf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Workflow{}, ErrWorkflowNotFound
		}
		return domain.Workflow{}, fmt.Errorf("get workflow: %w", err)
	}
	return wf, nil
}

func (s *WorkflowService) List(ctx context.Context) ([]domain.Workflow, error) {
	if s == nil || s.repo == nil {
		return nil, ErrWorkflowServiceNotConfigured
	}
	return s.repo.List(ctx)
}
