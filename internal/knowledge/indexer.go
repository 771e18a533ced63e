package knowledge

import (
	"context"
	"fmt"
)

// IndexChunks embeds chunk contents and stores them in the vector store.
// This function:
// 1. Optionally deletes existing chunks (force reindex)
// 2. Optionally filters out chunks that already exist (skip existing)
// 3. Generates embeddings in batches
// 4. Inserts chunks with their embeddings
func IndexChunks(
	ctx context.Context,
	chunks []Chunk,
	embedder Embedder,
	store VectorStore,
	opts IndexOptions,
) error {
	if len(chunks) == 0 {
		return nil
	}

	if embedder == nil {
		return fmt.Errorf("embedder cannot be nil")
	}

	if store == nil {
		return fmt.Errorf("vector store cannot be nil")
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultIndexOptions().BatchSize
	}

	if opts.ForceReindex {
		ids := make([]string, len(chunks))
		for i, c := range chunks {
			ids[i] = c.ID
		}

		if err := store.Delete(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete existing chunks: %w", err)
		}
	}

	chunksToIndex := chunks
	if opts.SkipExisting && !opts.ForceReindex {
		chunksToIndex = filterNewChunks(ctx, chunks, store)
	}

	for batchStart := 0; batchStart < len(chunksToIndex); batchStart += opts.BatchSize {
		batchEnd := batchStart + opts.BatchSize
		if batchEnd > len(chunksToIndex) {
			batchEnd = len(chunksToIndex)
		}

		batch := chunksToIndex[batchStart:batchEnd]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		records, err := embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings for batch starting at %d: %w", batchStart, err)
		}

		embedded := make([]Chunk, len(batch))
		for i, chunk := range batch {
			chunk.Embedding = records[i].Embedding
			embedded[i] = chunk
		}

		if err := store.Insert(ctx, embedded); err != nil {
			return fmt.Errorf("failed to insert batch starting at %d: %w", batchStart, err)
		}
	}

	return nil
}

// filterNewChunks removes chunks that already exist in the vector store
func filterNewChunks(ctx context.Context, chunks []Chunk, store VectorStore) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}

	existing, err := store.Exists(ctx, ids)
	if err != nil {
		// If the existence check fails, index everything and let the
		// store surface any insertion errors.
		return chunks
	}

	fresh := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if !existing[c.ID] {
			fresh = append(fresh, c)
		}
	}

	return fresh
}
