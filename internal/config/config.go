// Package config provides environment-driven configuration for the backend.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Vector store backends.
const (
	VectorStorePostgres = "postgres"
	VectorStoreQdrant   = "qdrant"
)

// Config holds all runtime settings. Values come from environment variables
// (optionally loaded from a .env file by the CLI), with defaults for
// everything except the database URL and the embedding API key.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`

	GeminiAPIKey   string  `mapstructure:"gemini_api_key"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	EmbeddingRPS   float64 `mapstructure:"embedding_rps"`
	EmbedWorkers   int     `mapstructure:"embed_workers"`

	VectorStore      string `mapstructure:"vector_store"`
	QdrantAddr       string `mapstructure:"qdrant_addr"`
	QdrantCollection string `mapstructure:"qdrant_collection"`

	NATSURL string `mapstructure:"nats_url"`

	JSearchAPIKey string `mapstructure:"jsearch_api_key"`
	JSearchHost   string `mapstructure:"jsearch_host"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("embedding_model", "text-embedding-004")
	v.SetDefault("embedding_rps", 0.0)
	v.SetDefault("embed_workers", 4)
	v.SetDefault("vector_store", VectorStorePostgres)
	v.SetDefault("qdrant_collection", "skillforge")
	v.SetDefault("jsearch_host", "jsearch.p.rapidapi.com")

	bindings := map[string]string{
		"port":              "PORT",
		"database_url":      "DATABASE_URL",
		"gemini_api_key":    "GEMINI_API_KEY",
		"embedding_model":   "EMBEDDING_MODEL",
		"embedding_rps":     "EMBEDDING_RPS",
		"embed_workers":     "EMBED_WORKERS",
		"vector_store":      "VECTOR_STORE",
		"qdrant_addr":       "QDRANT_ADDR",
		"qdrant_collection": "QDRANT_COLLECTION",
		"nats_url":          "NATS_URL",
		"jsearch_api_key":   "JSEARCH_API_KEY",
		"jsearch_host":      "JSEARCH_HOST",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	switch c.VectorStore {
	case VectorStorePostgres:
	case VectorStoreQdrant:
		if c.QdrantAddr == "" {
			return fmt.Errorf("config error: QDRANT_ADDR is required for the qdrant vector store")
		}
	default:
		return fmt.Errorf("config error: unknown vector store %q", c.VectorStore)
	}
	if c.EmbedWorkers < 1 {
		return fmt.Errorf("config error: EMBED_WORKERS must be at least 1")
	}
	return nil
}
