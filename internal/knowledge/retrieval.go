package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSearchFailed wraps any vector store failure during retrieval.
	ErrSearchFailed = errors.New("similarity search failed")
)

// Retriever performs semantic retrieval over the knowledge store. The
// similarity threshold keeps low-confidence matches out of the prompt; the
// limit caps how many chunks one question can pull in. Both are configured,
// not hard-coded, because retrieval quality is workload-dependent.
type Retriever struct {
	embedder  Embedder
	store     VectorStore
	threshold float32
	limit     int
}

// NewRetriever creates a Retriever with the given threshold and result cap.
func NewRetriever(embedder Embedder, store VectorStore, threshold float32, limit int) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %f", threshold)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	return &Retriever{
		embedder:  embedder,
		store:     store,
		threshold: threshold,
		limit:     limit,
	}, nil
}

// EmbedQuery generates the query vector for a question.
func (r *Retriever) EmbedQuery(ctx context.Context, question string) ([]float32, error) {
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}

	records, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(records) == 0 || len(records[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no vector generated for question", ErrEmbeddingFailed)
	}

	return records[0].Embedding, nil
}

// SearchByVector performs the similarity search for an already-embedded
// question. An empty result is a valid outcome, not an error: it means no
// stored knowledge cleared the threshold.
func (r *Retriever) SearchByVector(ctx context.Context, queryVector []float32) ([]RetrievedChunk, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}

	chunks, err := r.store.Search(ctx, queryVector, r.threshold, r.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	// Stores return results ordered, but ordering among equal scores is
	// store-defined. Re-sort so callers always see descending scores.
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Score > chunks[j].Score })

	if len(chunks) > r.limit {
		chunks = chunks[:r.limit]
	}

	return chunks, nil
}

// Retrieve embeds a free-text question and searches in one call.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]RetrievedChunk, error) {
	vector, err := r.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return r.SearchByVector(ctx, vector)
}
