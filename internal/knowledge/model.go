package knowledge

import (
	"context"
)

// Chunk is a unit of ingested site knowledge: a delivery policy, a product
// description, a returns rule. Chunks are written by the ingestion path and
// read-only for the answering pipeline.
type Chunk struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Category  string            `json:"category,omitempty"`
	Source    string            `json:"source,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// RetrievedChunk pairs a chunk with its similarity score for one query.
type RetrievedChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// VectorStore defines the interface for chunk storage and similarity search.
// Scores are cosine similarity in [0,1], higher is more similar; every
// implementation applies the threshold and limit itself and returns results
// ordered descending by score.
type VectorStore interface {
	// Insert adds chunks (with embeddings already set) to the store
	Insert(ctx context.Context, chunks []Chunk) error

	// Search returns up to limit chunks with score >= threshold,
	// ordered descending by score
	Search(ctx context.Context, queryVector []float32, threshold float32, limit int) ([]RetrievedChunk, error)

	// Exists reports which of the given chunk IDs are present
	Exists(ctx context.Context, ids []string) (map[string]bool, error)

	// Delete removes chunks by ID
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored chunks
	Count(ctx context.Context) (int64, error)

	// Close releases resources and closes connections
	Close() error
}

// IndexOptions provides configuration for chunk indexing
type IndexOptions struct {
	// BatchSize determines how many chunks to embed per API call
	BatchSize int

	// ForceReindex deletes and re-inserts chunks even if they exist
	ForceReindex bool

	// SkipExisting checks whether a chunk already exists and skips it
	SkipExisting bool
}

// DefaultIndexOptions returns sensible defaults for indexing
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		BatchSize:    10,
		ForceReindex: false,
		SkipExisting: true,
	}
}
