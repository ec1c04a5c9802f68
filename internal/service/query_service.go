package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/llm"
	"workflow-gateway/internal/metrics"
)

const (
	testQueryMarker    = "test"
	testResponsePrefix = "This is a test response from the backend! Your query was: "

	NoCandidatesMessage = "No response from upstream."
	RateLimitedMessage  = "Upstream rate limit reached. Please wait a moment and try again. For testing, try asking something with 'test' in it."
)

var ErrLLMNotConfigured = errors.New("Gemini API key not set.")

// UpstreamError envuelve cualquier falla del proveedor que no sea rate limit.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("LLM query failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type OutcomeKind string

const (
	OutcomeAnswered OutcomeKind = "answered"
	OutcomeDegraded OutcomeKind = "degraded"
	OutcomeFailed   OutcomeKind = "failed"
)

type DegradeReason string

const (
	DegradeRateLimited  DegradeReason = "rate_limited"
	DegradeNoCandidates DegradeReason = "no_candidates"
)

type FailureKind string

const (
	FailureConfiguration FailureKind = "configuration"
	FailureUpstream      FailureKind = "upstream"
)

// Outcome es el resultado etiquetado de una consulta. Answered y Degraded
// llevan Response; Failed lleva Failure y Err.
type Outcome struct {
	Kind           OutcomeKind
	Response       string
	ShortCircuited bool
	Reason         DegradeReason
	Failure        FailureKind
	Err            error
}

// Result convierte el outcome al contrato QueryResponse/error.
func (o Outcome) Result() (domain.QueryResponse, error) {
	if o.Kind == OutcomeFailed {
		return domain.QueryResponse{}, o.Err
	}
	return domain.QueryResponse{Response: o.Response}, nil
}

func (o Outcome) detail() string {
	switch o.Kind {
	case OutcomeDegraded:
		return string(o.Reason)
	case OutcomeFailed:
		return string(o.Failure)
	default:
		if o.ShortCircuited {
			return "short_circuit"
		}
		return "upstream"
	}
}

// QueryConfig se lee una vez al arrancar y se inyecta en el servicio.
type QueryConfig struct {
	APIKey string
}

// QueryService reenvía consultas al LLM y normaliza sus respuestas.
type QueryService struct {
	cfg    QueryConfig
	client llm.GenerativeClient
	logger *zap.Logger
}

func NewQueryService(cfg QueryConfig, client llm.GenerativeClient, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// IsTestQuery reporta si la consulta debe responderse sin llamar al LLM:
// cualquier user_query que contenga "test" (sin distinguir mayúsculas).
func IsTestQuery(userQuery string) bool {
	return strings.Contains(strings.ToLower(userQuery), testQueryMarker)
}

// SelectPrompt devuelve custom_prompt si viene informado, si no user_query.
func SelectPrompt(req domain.QueryRequest) string {
	if req.CustomPrompt != "" {
		return req.CustomPrompt
	}
	return req.UserQuery
}

// Answer resuelve la consulta y la expresa como respuesta o error.
func (s *QueryService) Answer(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	return s.Resolve(ctx, req).Result()
}

// Resolve ejecuta el árbol de decisión completo y devuelve un Outcome.
func (s *QueryService) Resolve(ctx context.Context, req domain.QueryRequest) Outcome {
	out := s.resolve(ctx, req)
	metrics.ObserveQueryOutcome(string(out.Kind), out.detail())
	return out
}

func (s *QueryService) resolve(ctx context.Context, req domain.QueryRequest) Outcome {
	if s == nil || s.cfg.APIKey == "" || s.client == nil {
		return Outcome{Kind: OutcomeFailed, Failure: FailureConfiguration, Err: ErrLLMNotConfigured}
	}

	if IsTestQuery(req.UserQuery) {
		return Outcome{
			Kind:           OutcomeAnswered,
			Response:       testResponsePrefix + req.UserQuery,
			ShortCircuited: true,
		}
	}

	prompt := SelectPrompt(req)

	start := time.Now()
	resp, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		if llm.IsRateLimited(err) {
			metrics.ObserveUpstream(string(DegradeRateLimited), time.Since(start))
			s.logger.Warn("llm rate limited", zap.Error(err))
			return Outcome{Kind: OutcomeDegraded, Response: RateLimitedMessage, Reason: DegradeRateLimited}
		}
		metrics.ObserveUpstream("error", time.Since(start))
		s.logger.Error("llm query failed", zap.Error(err), zap.Int("upstream_status", llm.StatusCode(err)))
		return Outcome{
			Kind:    OutcomeFailed,
			Failure: FailureUpstream,
			Err:     &UpstreamError{StatusCode: llm.StatusCode(err), Err: err},
		}
	}
	metrics.ObserveUpstream("ok", time.Since(start))

	text, ok := resp.FirstText()
	if !ok {
		s.logger.Warn("llm response without candidates")
		return Outcome{Kind: OutcomeDegraded, Response: NoCandidatesMessage, Reason: DegradeNoCandidates}
	}
	return Outcome{Kind: OutcomeAnswered, Response: text}
}
