package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 512
)

// GenerativeClient define la interfaz para generar respuestas con un LLM.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, prompt string) (*GenerateContentResponse, error)
}

// GeminiClient implementa GenerativeClient contra la API generateContent de Gemini.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewGeminiClient construye un cliente apuntando a {baseURL}/v1beta/models/{model}:generateContent.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  httpClient,
		logger:  logger,
	}
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (*GenerateContentResponse, error) {
	bodyBytes, err := json.Marshal(NewTextRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// El error de net/http incluye la URL con la key; no la propagamos.
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("llm error status",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
			zap.Duration("latency", time.Since(start)),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxErrorBody)}
	}

	// Un body que no es JSON es una falla; un JSON con otra forma se decodifica
	// hasta donde se pueda y FirstText decide si hay respuesta.
	var out GenerateContentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		c.logger.Warn("llm response shape mismatch",
			zap.String("model", c.model),
			zap.String("field", typeErr.Field),
		)
	}

	c.logger.Debug("llm response",
		zap.String("model", c.model),
		zap.Int("candidates", len(out.Candidates)),
		zap.Duration("latency", time.Since(start)),
	)
	return &out, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
