package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Store.Driver != DefaultStoreDriver {
		t.Errorf("expected driver %q, got %q", DefaultStoreDriver, cfg.Store.Driver)
	}
	if cfg.Answering.SimilarityThreshold != DefaultSimilarityCutoff {
		t.Errorf("expected threshold %v, got %v", DefaultSimilarityCutoff, cfg.Answering.SimilarityThreshold)
	}
	if cfg.Answering.MaxChunks != DefaultMaxChunks {
		t.Errorf("expected max chunks %d, got %d", DefaultMaxChunks, cfg.Answering.MaxChunks)
	}
	if cfg.Answering.CallTimeout() != 15*time.Second {
		t.Errorf("expected 15s call timeout, got %s", cfg.Answering.CallTimeout())
	}
	if !strings.Contains(cfg.Answering.FallbackMessage, DefaultFallbackContact) {
		t.Errorf("default fallback message must name the support contact, got %q", cfg.Answering.FallbackMessage)
	}
}

func TestLoad(t *testing.T) {
	yaml := `
debug: true
server:
  port: 9999
store:
  driver: milvus
  milvus:
    address: milvus.internal:19530
answering:
  similarity_threshold: 0.45
  max_chunks: 3
  call_timeout_seconds: 5
  fallback_contact: "support@example.com"
  facts:
    - "We ship nationwide."
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Debug {
		t.Error("debug flag not loaded")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "milvus" {
		t.Errorf("expected milvus driver, got %q", cfg.Store.Driver)
	}
	if cfg.Store.Milvus.Address != "milvus.internal:19530" {
		t.Errorf("unexpected milvus address %q", cfg.Store.Milvus.Address)
	}
	if cfg.Answering.SimilarityThreshold != 0.45 {
		t.Errorf("expected threshold 0.45, got %v", cfg.Answering.SimilarityThreshold)
	}
	if cfg.Answering.CallTimeout() != 5*time.Second {
		t.Errorf("expected 5s call timeout, got %s", cfg.Answering.CallTimeout())
	}
	if len(cfg.Answering.Facts) != 1 || cfg.Answering.Facts[0] != "We ship nationwide." {
		t.Errorf("facts not loaded: %v", cfg.Answering.Facts)
	}

	// Unset fields still get defaults.
	if cfg.Server.Host != DefaultHost {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Embedding.Model != DefaultEmbeddingModel {
		t.Errorf("expected default embedding model, got %q", cfg.Embedding.Model)
	}
	if !strings.Contains(cfg.Answering.FallbackMessage, "support@example.com") {
		t.Errorf("fallback message should name the configured contact, got %q", cfg.Answering.FallbackMessage)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
