package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/groomlane/concierge/internal/knowledge"
	"github.com/groomlane/concierge/internal/shop"
	"github.com/groomlane/concierge/internal/support"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	ingestReindex bool
	ingestBatch   int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.yaml]",
	Short: "Ingest knowledge chunks into the vector store",
	Long: `Ingest site knowledge from a YAML file into the configured vector store.

The file may contain store policies, catalog products, and free-form chunks:

  policies:
    - title: Delivery
      body: Delivery within Accra takes 24-48 hours.
      category: delivery
  products:
    - id: oil-50ml
      name: Beard Growth Oil 50ml
      description: Daily conditioning oil.
      price: 120
  chunks:
    - content: We accept mobile money and card payments.
      category: payments

Each entry is embedded once at ingestion time with the configured embedding
model; queries must use the same model for scores to be meaningful.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestReindex, "reindex", false, "Re-embed and replace chunks that already exist")
	ingestCmd.Flags().IntVar(&ingestBatch, "batch", 10, "Embedding batch size")
}

type ingestFile struct {
	Policies []shop.Policy     `yaml:"policies"`
	Products []shop.Product    `yaml:"products"`
	Chunks   []knowledge.Chunk `yaml:"chunks"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var file ingestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	chunks := shop.PolicyChunks(file.Policies)
	chunks = append(chunks, shop.ProductChunks(file.Products)...)
	for _, c := range file.Chunks {
		if c.Content == "" {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		chunks = append(chunks, c)
	}

	if len(chunks) == 0 {
		return fmt.Errorf("no chunks found in %s", args[0])
	}

	embedder, err := knowledge.NewOpenAIEmbedder(cfg.Embedding.Model, cfg.Embedding.Dimension)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := support.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	opts := knowledge.IndexOptions{
		BatchSize:    ingestBatch,
		ForceReindex: ingestReindex,
		SkipExisting: !ingestReindex,
	}

	if err := knowledge.IndexChunks(ctx, chunks, embedder, store, opts); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	fmt.Printf("Ingested %d chunks (%d total in store)\n", len(chunks), count)
	return nil
}
