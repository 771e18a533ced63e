// Package config provides configuration loading and structs for the
// concierge service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Answering  AnsweringConfig  `yaml:"answering"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	// Driver is one of "milvus", "chromem", "postgres".
	Driver   string         `yaml:"driver"`
	Milvus   MilvusConfig   `yaml:"milvus"`
	Chromem  ChromemConfig  `yaml:"chromem"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MilvusConfig holds Milvus connection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
}

// ChromemConfig holds embedded chromem-go store settings.
type ChromemConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

// PostgresConfig holds pgvector-backed Postgres settings.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// EmbeddingConfig holds embedding model settings. Chunk and query vectors
// must come from the same model and dimension.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// GenerationConfig holds text generation settings.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AnsweringConfig holds the answering pipeline tunables.
type AnsweringConfig struct {
	// SimilarityThreshold is the minimum score for a chunk to enter the
	// prompt, in [0,1].
	SimilarityThreshold float32 `yaml:"similarity_threshold"`

	// MaxChunks caps how many chunks one question can retrieve.
	MaxChunks int `yaml:"max_chunks"`

	// ContextBudget is the maximum assembled context size in characters.
	ContextBudget int `yaml:"context_budget"`

	// CallTimeoutSeconds bounds each remote call (embed, search, generate).
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`

	// FallbackContact is the human support channel named in prompts and
	// in the fallback message.
	FallbackContact string `yaml:"fallback_contact"`

	// FallbackMessage is the fixed local response used when the pipeline
	// cannot produce a grounded answer. Defaults to an apology naming
	// FallbackContact.
	FallbackMessage string `yaml:"fallback_message"`

	// Persona overrides the default assistant persona statement.
	Persona string `yaml:"persona"`

	// Facts are domain statements always asserted in the prompt.
	Facts []string `yaml:"facts"`

	// ExtraRules are appended to the built-in prompt rules.
	ExtraRules []string `yaml:"extra_rules"`
}

// CallTimeout returns the per-call timeout as a duration.
func (a AnsweringConfig) CallTimeout() time.Duration {
	return time.Duration(a.CallTimeoutSeconds) * time.Second
}

// Load reads and parses the config file at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
