package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del gateway.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// GeminiAPIKey no es obligatorio al arrancar: su ausencia se reporta por request en /query.
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`
	LLMTimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"30"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	UploadRateLimit         int `env:"UPLOAD_RATE_LIMIT" envDefault:"10"`
	UploadRateWindowSeconds int `env:"UPLOAD_RATE_WINDOW_SECONDS" envDefault:"60"`
	MaxUploadMB             int `env:"MAX_UPLOAD_MB" envDefault:"20"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	return &cfg, nil
}

// LLMTimeout devuelve el timeout de la llamada upstream.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLMTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// UploadRateWindow devuelve la ventana del limitador de uploads.
func (c *Config) UploadRateWindow() time.Duration {
	if c.UploadRateWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.UploadRateWindowSeconds) * time.Second
}

// MaxUploadBytes devuelve el tamaño máximo aceptado para un archivo subido.
func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// AllowAllOrigins indica si CORS debe aceptar cualquier origen.
func (c *Config) AllowAllOrigins() bool {
	if len(c.CORSAllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.CORSAllowedOrigins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
