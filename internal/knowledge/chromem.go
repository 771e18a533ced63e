package knowledge

import (
	"context"
	"fmt"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemConfig holds configuration for the embedded chromem-go store.
type ChromemConfig struct {
	Path           string // Directory for the persistent DB; ignored when InMemory
	CollectionName string
	InMemory       bool
}

// ChromemStore implements VectorStore using chromem-go. It keeps the whole
// knowledge base in process, which is plenty for a storefront-sized corpus
// and removes the external dependency for local development.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore opens (or creates) the embedded store.
func NewChromemStore(config ChromemConfig) (*ChromemStore, error) {
	if config.CollectionName == "" {
		config.CollectionName = "site_knowledge"
	}

	var db *chromem.DB
	var err error
	if config.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(config.Path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem database: %w", err)
		}
	}

	// Embeddings are always supplied by the ingestion path, so no
	// embedding function is registered on the collection.
	collection, err := db.GetOrCreateCollection(config.CollectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
	}, nil
}

// Insert adds chunks with precomputed embeddings.
func (s *ChromemStore) Insert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		metadata := map[string]string{}
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		if chunk.Category != "" {
			metadata["category"] = chunk.Category
		}
		if chunk.Source != "" {
			metadata["source"] = chunk.Source
		}

		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Content,
			Metadata:  metadata,
			Embedding: chunk.Embedding,
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	return nil
}

// Search performs similarity search against the embedded collection.
func (s *ChromemStore) Search(ctx context.Context, queryVector []float32, threshold float32, limit int) ([]RetrievedChunk, error) {
	// chromem rejects result counts above the collection size.
	count := s.collection.Count()
	if count == 0 {
		return []RetrievedChunk{}, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVector,
		NResults:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	chunks := make([]RetrievedChunk, 0, len(results))
	for _, res := range results {
		if res.Similarity < threshold {
			continue
		}
		chunks = append(chunks, RetrievedChunk{
			Chunk: Chunk{
				ID:       res.ID,
				Content:  res.Content,
				Category: res.Metadata["category"],
				Source:   res.Metadata["source"],
			},
			Score: res.Similarity,
		})
	}

	return chunks, nil
}

// Exists reports which chunk IDs are present.
func (s *ChromemStore) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		_, err := s.collection.GetByID(ctx, id)
		existing[id] = err == nil
	}
	return existing, nil
}

// Delete removes chunks by ID.
func (s *ChromemStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *ChromemStore) Count(ctx context.Context) (int64, error) {
	return int64(s.collection.Count()), nil
}

// Close is a no-op; chromem-go holds no external connections.
func (s *ChromemStore) Close() error {
	return nil
}
