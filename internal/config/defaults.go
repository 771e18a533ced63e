package config

import (
	"fmt"
)

// Defaults mirror the storefront's production settings: a permissive
// threshold tuned for short policy chunks, a small chunk cap, and the
// WhatsApp support line as the fallback channel.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 8090

	DefaultStoreDriver       = "chromem"
	DefaultChromemPath       = "./data/knowledge"
	DefaultCollection        = "site_knowledge"
	DefaultPostgresTable     = "site_knowledge"
	DefaultEmbeddingModel    = "text-embedding-3-small"
	DefaultEmbeddingDim      = 1536
	DefaultGenerationModel   = "gpt-4o-mini"
	DefaultGenerationTokens  = 1000
	DefaultSimilarityCutoff  = 0.3
	DefaultMaxChunks         = 5
	DefaultContextBudget     = 6000
	DefaultCallTimeoutSecs   = 15
	DefaultFallbackContact   = "WhatsApp +233 53 502 3614"
)

// ApplyDefaults fills in zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Milvus.Address == "" {
		cfg.Store.Milvus.Address = "localhost:19530"
	}
	if cfg.Store.Milvus.Collection == "" {
		cfg.Store.Milvus.Collection = DefaultCollection
	}
	if cfg.Store.Chromem.Path == "" {
		cfg.Store.Chromem.Path = DefaultChromemPath
	}
	if cfg.Store.Chromem.Collection == "" {
		cfg.Store.Chromem.Collection = DefaultCollection
	}
	if cfg.Store.Postgres.Table == "" {
		cfg.Store.Postgres.Table = DefaultPostgresTable
	}

	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultEmbeddingModel
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = DefaultEmbeddingDim
	}

	if cfg.Generation.Model == "" {
		cfg.Generation.Model = DefaultGenerationModel
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = DefaultGenerationTokens
	}

	if cfg.Answering.SimilarityThreshold == 0 {
		cfg.Answering.SimilarityThreshold = DefaultSimilarityCutoff
	}
	if cfg.Answering.MaxChunks == 0 {
		cfg.Answering.MaxChunks = DefaultMaxChunks
	}
	if cfg.Answering.ContextBudget == 0 {
		cfg.Answering.ContextBudget = DefaultContextBudget
	}
	if cfg.Answering.CallTimeoutSeconds == 0 {
		cfg.Answering.CallTimeoutSeconds = DefaultCallTimeoutSecs
	}
	if cfg.Answering.FallbackContact == "" {
		cfg.Answering.FallbackContact = DefaultFallbackContact
	}
	if cfg.Answering.FallbackMessage == "" {
		cfg.Answering.FallbackMessage = fmt.Sprintf(
			"Sorry, I can't help with that right now. Please contact us on %s and we'll sort you out.",
			cfg.Answering.FallbackContact)
	}
}
