package support

import (
	"context"
	"fmt"

	"github.com/groomlane/concierge/internal/answer"
	"github.com/groomlane/concierge/internal/config"
	"github.com/groomlane/concierge/internal/knowledge"
	"go.uber.org/zap"
)

// OpenStore opens the vector store selected by the configuration.
func OpenStore(ctx context.Context, cfg *config.Config) (knowledge.VectorStore, error) {
	switch cfg.Store.Driver {
	case "milvus":
		return knowledge.NewMilvusStore(ctx, knowledge.MilvusConfig{
			Address:        cfg.Store.Milvus.Address,
			CollectionName: cfg.Store.Milvus.Collection,
			Dimension:      cfg.Embedding.Dimension,
			IndexType:      "HNSW",
			MetricType:     "COSINE",
			M:              16,
			EfConstruction: 256,
		})
	case "chromem":
		return knowledge.NewChromemStore(knowledge.ChromemConfig{
			Path:           cfg.Store.Chromem.Path,
			CollectionName: cfg.Store.Chromem.Collection,
			InMemory:       cfg.Store.Chromem.InMemory,
		})
	case "postgres":
		return knowledge.NewPostgresStore(ctx, knowledge.PostgresConfig{
			DSN:       cfg.Store.Postgres.DSN,
			Table:     cfg.Store.Postgres.Table,
			Dimension: cfg.Embedding.Dimension,
			Debug:     cfg.Debug,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// New builds a fully wired pipeline from the application configuration:
// OpenAI embedder, the configured vector store, retriever, OpenAI LLM and
// generator. The returned store must be closed by the caller when done;
// Close on the pipeline handles that.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	embedder, err := knowledge.NewOpenAIEmbedder(cfg.Embedding.Model, cfg.Embedding.Dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	retriever, err := knowledge.NewRetriever(embedder, store,
		cfg.Answering.SimilarityThreshold, cfg.Answering.MaxChunks)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	llm, err := answer.NewOpenAILLM(answer.LLMConfig{
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}

	generator := answer.NewGenerator(llm, answer.LLMConfig{Model: cfg.Generation.Model})

	opts := DefaultOptions()
	opts.ContextBudget = cfg.Answering.ContextBudget
	opts.CallTimeout = cfg.Answering.CallTimeout()
	if cfg.Answering.FallbackMessage != "" {
		opts.FallbackMessage = cfg.Answering.FallbackMessage
	}
	opts.Template.Contact = cfg.Answering.FallbackContact
	if cfg.Answering.Persona != "" {
		opts.Template.Persona = cfg.Answering.Persona
	}
	if len(cfg.Answering.Facts) > 0 {
		opts.Template.Facts = cfg.Answering.Facts
	}
	opts.Template.ExtraRules = cfg.Answering.ExtraRules

	pipeline, err := NewPipeline(retriever, generator, opts, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &Service{
		Pipeline: pipeline,
		Embedder: embedder,
		Store:    store,
	}, nil
}

// Service bundles the pipeline with the components the rest of the
// application needs for ingestion and shutdown.
type Service struct {
	*Pipeline
	Embedder knowledge.Embedder
	Store    knowledge.VectorStore
}

// Close releases the underlying store connection.
func (s *Service) Close() error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}
