package support

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/groomlane/concierge/internal/answer"
	"github.com/groomlane/concierge/internal/knowledge"
)

type pipelineFixture struct {
	embedder *knowledge.MockEmbedder
	store    *knowledge.MockStore
	llm      *answer.MockLLM
	pipeline *Pipeline
}

func newFixture(t *testing.T, opts Options) *pipelineFixture {
	t.Helper()

	embedder := knowledge.NewMockEmbedder(nil)
	store := knowledge.NewMockStore()
	llm := &answer.MockLLM{}

	retriever, err := knowledge.NewRetriever(embedder, store, 0.3, 5)
	if err != nil {
		t.Fatalf("failed to build retriever: %v", err)
	}

	pipeline, err := NewPipeline(retriever, answer.NewGenerator(llm, answer.DefaultLLMConfig()), opts, nil)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	return &pipelineFixture{embedder: embedder, store: store, llm: llm, pipeline: pipeline}
}

func TestNewPipeline_Validation(t *testing.T) {
	retriever, err := knowledge.NewRetriever(knowledge.NewMockEmbedder(nil), knowledge.NewMockStore(), 0.3, 5)
	if err != nil {
		t.Fatalf("failed to build retriever: %v", err)
	}
	generator := answer.NewGenerator(answer.NewMockLLM("x"), answer.DefaultLLMConfig())

	if _, err := NewPipeline(nil, generator, DefaultOptions(), nil); err == nil {
		t.Error("expected error for nil retriever")
	}
	if _, err := NewPipeline(retriever, nil, DefaultOptions(), nil); err == nil {
		t.Error("expected error for nil generator")
	}

	opts := DefaultOptions()
	opts.FallbackMessage = ""
	if _, err := NewPipeline(retriever, generator, opts, nil); err == nil {
		t.Error("expected error for empty fallback message")
	}
}

func TestPipeline_Answer_Grounded(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.store.AddScored(knowledge.Chunk{
		ID:      "delivery",
		Content: "Standard delivery within Accra takes 24-48 hours.",
	}, 0.81)

	ans, err := f.pipeline.Answer(context.Background(), "How long does delivery take?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ans.Grounded {
		t.Error("answer backed by retrieved context should be grounded")
	}
	if !strings.Contains(ans.Text, "24-48") {
		t.Errorf("answer should carry the retrieved delivery window, got %q", ans.Text)
	}
	if !strings.Contains(f.llm.LastPrompt, "Standard delivery within Accra takes 24-48 hours.") {
		t.Error("prompt missing the retrieved chunk")
	}
	if !strings.Contains(f.llm.LastPrompt, "How long does delivery take?") {
		t.Error("prompt missing the customer question")
	}
}

func TestPipeline_Answer_PromptKeepsRankOrder(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.store.AddScored(knowledge.Chunk{ID: "low", Content: "lesser match fact"}, 0.4)
	f.store.AddScored(knowledge.Chunk{ID: "high", Content: "best match fact"}, 0.9)

	if _, err := f.pipeline.Answer(context.Background(), "question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hi := strings.Index(f.llm.LastPrompt, "best match fact")
	lo := strings.Index(f.llm.LastPrompt, "lesser match fact")
	if hi < 0 || lo < 0 {
		t.Fatal("prompt missing retrieved chunks")
	}
	if hi > lo {
		t.Error("higher-scored chunk must precede lower-scored chunk in the prompt")
	}
}

func TestPipeline_Answer_BlankQuestion(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := f.pipeline.Answer(context.Background(), q)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("question %q: expected ErrEmptyQuestion, got %v", q, err)
		}
	}

	if f.embedder.Calls != 0 {
		t.Error("blank input must be rejected before the embedder is invoked")
	}
	if f.llm.Calls != 0 {
		t.Error("blank input must be rejected before the LLM is invoked")
	}
}

func TestPipeline_Answer_NoMatchesDefers(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.store.AddScored(knowledge.Chunk{ID: "noise", Content: "Unrelated trivia."}, 0.05)

	ans, err := f.pipeline.Answer(context.Background(), "What is the meaning of life?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(f.llm.LastPrompt, answer.NoContextSentinel) {
		t.Error("prompt should carry the no-context sentinel when nothing clears the threshold")
	}
	if !strings.Contains(ans.Text, "don't have that information") {
		t.Errorf("expected a deferring answer, got %q", ans.Text)
	}
}

func TestPipeline_Answer_EmbeddingFailureFallsBack(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.embedder.Error = errors.New("embedding service down")

	ans, err := f.pipeline.Answer(context.Background(), "How long does delivery take?")
	if err != nil {
		t.Fatalf("failure must not surface as an error: %v", err)
	}

	if ans.Text != f.pipeline.opts.FallbackMessage {
		t.Errorf("expected fallback message, got %q", ans.Text)
	}
	if ans.Grounded {
		t.Error("fallback answers are not grounded")
	}
	if f.llm.Calls != 0 {
		t.Error("no generation should be attempted when embedding fails")
	}
}

func TestPipeline_Answer_RetrievalOutageDegrades(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.store.SearchError = errors.New("vector store unreachable")

	ans, err := f.pipeline.Answer(context.Background(), "Do you ship to Kumasi?")
	if err != nil {
		t.Fatalf("store outage must not surface as an error: %v", err)
	}

	if f.llm.Calls != 1 {
		t.Fatalf("generation should still run on a store outage, got %d calls", f.llm.Calls)
	}
	if !strings.Contains(f.llm.LastPrompt, answer.NoContextSentinel) {
		t.Error("outage should degrade to the no-context sentinel")
	}
	if ans.Text == f.pipeline.opts.FallbackMessage {
		t.Error("a store outage should degrade quality, not force the fallback")
	}
}

func TestPipeline_Answer_GenerationFailureFallsBack(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.llm.Error = errors.New("model overloaded")

	ans, err := f.pipeline.Answer(context.Background(), "How long does delivery take?")
	if err != nil {
		t.Fatalf("failure must not surface as an error: %v", err)
	}

	if ans.Text != f.pipeline.opts.FallbackMessage {
		t.Errorf("expected fallback message, got %q", ans.Text)
	}
	if !strings.Contains(ans.Text, "+233 53 502 3614") {
		t.Errorf("fallback must point customers at the support contact, got %q", ans.Text)
	}
	if f.llm.Calls != 1 {
		t.Errorf("expected exactly one generation attempt, got %d", f.llm.Calls)
	}
}

// slowLLM blocks until the context is cancelled.
type slowLLM struct{}

func (slowLLM) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPipeline_Answer_GenerationTimeoutFallsBack(t *testing.T) {
	embedder := knowledge.NewMockEmbedder(nil)
	retriever, err := knowledge.NewRetriever(embedder, knowledge.NewMockStore(), 0.3, 5)
	if err != nil {
		t.Fatalf("failed to build retriever: %v", err)
	}

	opts := DefaultOptions()
	opts.CallTimeout = 10 * time.Millisecond

	pipeline, err := NewPipeline(retriever, answer.NewGenerator(slowLLM{}, answer.DefaultLLMConfig()), opts, nil)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	ans, err := pipeline.Answer(context.Background(), "How long does delivery take?")
	if err != nil {
		t.Fatalf("timeout must not surface as an error: %v", err)
	}
	if ans.Text != opts.FallbackMessage {
		t.Errorf("expected fallback after generation timeout, got %q", ans.Text)
	}
	if ans.Grounded {
		t.Error("timeout fallback is not grounded")
	}
}

func TestPipeline_Answer_Concurrent(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.store.AddScored(knowledge.Chunk{ID: "faq", Content: "We accept mobile money payments."}, 0.7)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ans, err := f.pipeline.Answer(context.Background(), "Do you take mobile money?")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ans == nil || ans.Text == "" {
				t.Error("expected a non-empty answer")
			}
		}()
	}
	wg.Wait()
}
