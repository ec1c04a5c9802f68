package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"workflow-gateway/internal/config"
	"workflow-gateway/internal/db"
	"workflow-gateway/internal/domain"
	"workflow-gateway/internal/llm"
	"workflow-gateway/internal/pdf"
	"workflow-gateway/internal/service"
)

func newLogger(c *cli.Context) *zap.Logger {
	if !c.Bool("verbose") {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func ask(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("a query is required", 2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(c)
	defer logger.Sync()

	client := llm.NewGeminiClient(cfg.LLMBaseURL, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout(), nil, logger)
	svc := service.NewQueryService(service.QueryConfig{APIKey: cfg.GeminiAPIKey}, client, logger)

	resp, err := svc.Answer(c.Context, domain.QueryRequest{
		UserQuery:    query,
		CustomPrompt: c.String("prompt"),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, resp.Response)
	return err
}

func extract(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("a pdf path is required", 2)
	}
	if !service.IsPDFFilename(path) {
		return cli.Exit("Only PDF files are supported.", 2)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	text, err := pdf.NewTextExtractor(cfg.MaxUploadBytes()).ExtractText(f)
	if err != nil {
		return fmt.Errorf("Failed to process PDF: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, text)
	return err
}

func migrate(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	logger := newLogger(c)
	defer logger.Sync()

	pool, err := db.NewPool(c.Context, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(c.Context, pool); err != nil {
		return err
	}
	logger.Info("schema ready")
	_, err = fmt.Fprintln(c.App.Writer, "schema ready")
	return err
}
