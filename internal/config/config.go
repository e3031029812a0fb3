package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Backends de almacenamiento soportados.
const (
	StoreNone     = "none"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"assistant:"`

	LLMAPIKey         string `env:"LLM_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMMaxTokens      int    `env:"LLM_MAX_TOKENS" envDefault:"300"`
	LLMTimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"30"`

	HistoryLimit       int    `env:"HISTORY_LIMIT" envDefault:"10"`
	PromptHistoryTurns int    `env:"PROMPT_HISTORY_TURNS" envDefault:"4"`
	DefaultSessionID   string `env:"DEFAULT_SESSION_ID" envDefault:"default"`
	StrictPersistence  bool   `env:"STRICT_PERSISTENCE" envDefault:"false"`

	JWTSecret      string  `env:"JWT_SECRET"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	MaxBodyBytes   int64   `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env.Parse no puede expresar con tags.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = StoreMemory
	}
	switch c.StoreBackend {
	case StoreNone, StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config: REDIS_ADDR is required for store backend %q", c.StoreBackend)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for store backend %q", c.StoreBackend)
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.StoreBackend)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("config: HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.PromptHistoryTurns < 0 {
		return fmt.Errorf("config: PROMPT_HISTORY_TURNS must not be negative, got %d", c.PromptHistoryTurns)
	}
	if strings.TrimSpace(c.DefaultSessionID) == "" {
		c.DefaultSessionID = "default"
	}
	switch c.GinMode {
	case "debug", "release", "test":
	case "":
		c.GinMode = "release"
	default:
		return fmt.Errorf("config: GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	return nil
}

// InferenceEnabled indica si hay un endpoint de inferencia configurado.
func (c *Config) InferenceEnabled() bool {
	return strings.TrimSpace(c.LLMAPIKey) != ""
}
