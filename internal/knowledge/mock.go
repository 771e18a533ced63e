package knowledge

import (
	"context"
	"sort"
	"sync"
)

// MockEmbedder is a deterministic Embedder implementation for testing.
// It returns a fixed vector for every text and records its invocations.
type MockEmbedder struct {
	// Vector is returned for every embedded text. If nil, a small
	// deterministic vector derived from the text length is used.
	Vector []float32

	// Error, if set, is returned by Embed instead of records.
	Error error

	// Calls counts how many times Embed was invoked.
	Calls int

	// LastTexts stores the most recent texts passed to Embed.
	LastTexts []string

	mu sync.Mutex
}

// NewMockEmbedder creates a mock embedder returning the given vector.
func NewMockEmbedder(vector []float32) *MockEmbedder {
	return &MockEmbedder{Vector: vector}
}

// NewMockEmbedderWithError creates a mock embedder that always fails.
func NewMockEmbedderWithError(err error) *MockEmbedder {
	return &MockEmbedder{Error: err}
}

// Embed returns the configured vector for each text.
func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	m.mu.Lock()
	m.Calls++
	m.LastTexts = texts
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	records := make([]EmbeddingRecord, len(texts))
	for i, text := range texts {
		vector := m.Vector
		if vector == nil {
			vector = []float32{float32(len(text)), 1, 0}
		}
		records[i] = EmbeddingRecord{
			Text:      text,
			Embedding: vector,
			Index:     i,
			Model:     m.GetModel(),
		}
	}

	return records, nil
}

// GetModel returns a fixed test model identifier.
func (m *MockEmbedder) GetModel() string { return "mock-embedding" }

// GetDimension returns the configured vector dimension.
func (m *MockEmbedder) GetDimension() int {
	if m.Vector != nil {
		return len(m.Vector)
	}
	return 3
}

// MockStore is an in-memory VectorStore double. Search ignores the query
// vector and scores chunks from the Scores map, so tests control exactly
// which chunks clear the threshold.
type MockStore struct {
	// Chunks holds the stored chunks in insertion order.
	Chunks []Chunk

	// Scores maps chunk ID to the similarity score Search reports for it.
	// Chunks without an entry score zero.
	Scores map[string]float32

	// SearchError, if set, is returned by Search.
	SearchError error

	// InsertError, if set, is returned by Insert.
	InsertError error

	// SearchCalls counts Search invocations; LastThreshold and LastLimit
	// record the most recent search parameters.
	SearchCalls   int
	LastThreshold float32
	LastLimit     int

	mu     sync.Mutex
	closed bool
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{Scores: map[string]float32{}}
}

// AddScored stores a chunk together with the score Search will report.
func (m *MockStore) AddScored(chunk Chunk, score float32) {
	if m.Scores == nil {
		m.Scores = map[string]float32{}
	}
	m.Chunks = append(m.Chunks, chunk)
	m.Scores[chunk.ID] = score
}

// Insert appends chunks to the store.
func (m *MockStore) Insert(ctx context.Context, chunks []Chunk) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Chunks = append(m.Chunks, chunks...)
	return nil
}

// Search returns stored chunks with score >= threshold, descending, capped.
func (m *MockStore) Search(ctx context.Context, queryVector []float32, threshold float32, limit int) ([]RetrievedChunk, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.LastThreshold = threshold
	m.LastLimit = limit
	m.mu.Unlock()

	if m.SearchError != nil {
		return nil, m.SearchError
	}

	results := make([]RetrievedChunk, 0, len(m.Chunks))
	for _, c := range m.Chunks {
		score := m.Scores[c.ID]
		if score >= threshold {
			results = append(results, RetrievedChunk{Chunk: c, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Exists reports which chunk IDs are stored.
func (m *MockStore) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = false
		for _, c := range m.Chunks {
			if c.ID == id {
				existing[id] = true
				break
			}
		}
	}
	return existing, nil
}

// Delete removes chunks by ID.
func (m *MockStore) Delete(ctx context.Context, ids []string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := m.Chunks[:0]
	for _, c := range m.Chunks {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	m.Chunks = kept
	return nil
}

// Count returns the number of stored chunks.
func (m *MockStore) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Chunks)), nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.closed = true
	return nil
}
