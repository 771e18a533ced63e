package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Common errors for Milvus operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrEmptyChunks      = errors.New("no chunks provided for insertion")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrInsertFailed     = errors.New("failed to insert chunks")
)

// MilvusConfig holds configuration for Milvus connection and collection
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string // Name of the collection
	Dimension      int    // Vector dimension (e.g., 1536 for text-embedding-3-small)
	IndexType      string // Index type (default: "HNSW")
	MetricType     string // Similarity metric (default: "COSINE")

	// HNSW index parameters
	M              int // HNSW M parameter (default: 16)
	EfConstruction int // HNSW efConstruction (default: 256)
}

// DefaultMilvusConfig returns default configuration from environment variables
func DefaultMilvusConfig() MilvusConfig {
	address := os.Getenv("MILVUS_ADDRESS")
	if address == "" {
		address = "localhost:19530"
	}

	collection := os.Getenv("MILVUS_COLLECTION")
	if collection == "" {
		collection = "site_knowledge"
	}

	return MilvusConfig{
		Address:        address,
		CollectionName: collection,
		Dimension:      1536,
		IndexType:      "HNSW",
		MetricType:     "COSINE",
		M:              16,
		EfConstruction: 256,
	}
}

// MilvusStore implements VectorStore using Milvus
type MilvusStore struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusStore connects to Milvus and ensures the knowledge collection
// exists with the expected schema.
func NewMilvusStore(ctx context.Context, config MilvusConfig) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client: c,
		config: config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection with schema if it doesn't exist
func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: m.config.CollectionName,
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "chunk_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "category",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "source",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.config.Dimension),
				},
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, m.config.M, m.config.EfConstruction)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}

	if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

// Insert adds chunks with embeddings to Milvus
func (m *MilvusStore) Insert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	chunkIDs := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	categories := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))

	for i, chunk := range chunks {
		if len(chunk.Embedding) != m.config.Dimension {
			return fmt.Errorf("%w: chunk %s has dimension %d, expected %d",
				ErrInvalidDimension, chunk.ID, len(chunk.Embedding), m.config.Dimension)
		}
		chunkIDs[i] = chunk.ID
		contents[i] = chunk.Content
		categories[i] = chunk.Category
		sources[i] = chunk.Source
		embeddings[i] = chunk.Embedding
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("chunk_id", chunkIDs),
		entity.NewColumnVarChar("content", contents),
		entity.NewColumnVarChar("category", categories),
		entity.NewColumnVarChar("source", sources),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, embeddings),
	}

	if _, err := m.client.Insert(ctx, m.config.CollectionName, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	if err := m.client.Flush(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to flush data: %w", err)
	}

	return nil
}

// Search performs similarity search, keeping only results at or above the
// threshold. Milvus returns at most limit candidates; scores below the
// threshold are dropped here because the gRPC search API has no score cutoff.
func (m *MilvusStore) Search(ctx context.Context, queryVector []float32, threshold float32, limit int) ([]RetrievedChunk, error) {
	if len(queryVector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(queryVector))
	}

	sp, err := entity.NewIndexHNSWSearchParam(64) // ef parameter for search
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	vectors := []entity.Vector{entity.FloatVector(queryVector)}
	outputFields := []string{"chunk_id", "content", "category", "source"}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		"",  // no filter expression
		outputFields,
		vectors,
		"embedding",
		entity.COSINE,
		limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return []RetrievedChunk{}, nil
	}

	chunks := make([]RetrievedChunk, 0, results[0].ResultCount)

	for i := 0; i < results[0].ResultCount; i++ {
		score := results[0].Scores[i]
		if score < threshold {
			continue
		}

		retrieved := RetrievedChunk{Score: score}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "chunk_id":
				retrieved.Chunk.ID = field.(*entity.ColumnVarChar).Data()[i]
			case "content":
				retrieved.Chunk.Content = field.(*entity.ColumnVarChar).Data()[i]
			case "category":
				retrieved.Chunk.Category = field.(*entity.ColumnVarChar).Data()[i]
			case "source":
				retrieved.Chunk.Source = field.(*entity.ColumnVarChar).Data()[i]
			}
		}

		chunks = append(chunks, retrieved)
	}

	return chunks, nil
}

// Exists reports which chunk IDs are present in the collection
func (m *MilvusStore) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	expr := fmt.Sprintf(`chunk_id == "%s"`, ids[0])
	for i := 1; i < len(ids); i++ {
		expr = fmt.Sprintf(`%s or chunk_id == "%s"`, expr, ids[i])
	}

	results, err := m.client.Query(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		[]string{"chunk_id"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}

	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = false
	}

	for _, column := range results {
		if column.Name() == "chunk_id" {
			if varcharCol, ok := column.(*entity.ColumnVarChar); ok {
				for _, id := range varcharCol.Data() {
					existing[id] = true
				}
			}
		}
	}

	return existing, nil
}

// Delete removes chunks by ID
func (m *MilvusStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	expr := fmt.Sprintf(`chunk_id == "%s"`, ids[0])
	for i := 1; i < len(ids); i++ {
		expr = fmt.Sprintf(`%s or chunk_id == "%s"`, expr, ids[i])
	}

	if err := m.client.Delete(ctx, m.config.CollectionName, "", expr); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}

// Count returns the number of stored chunks
func (m *MilvusStore) Count(ctx context.Context) (int64, error) {
	stats, err := m.client.GetCollectionStatistics(ctx, m.config.CollectionName)
	if err != nil {
		return 0, fmt.Errorf("failed to get stats: %w", err)
	}

	count, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse row count: %w", err)
	}

	return count, nil
}

// Close releases resources and closes the Milvus connection
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
