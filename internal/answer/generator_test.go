package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerator_Generate_Success(t *testing.T) {
	mockLLM := NewMockLLM("Delivery within Accra takes 24-48 hours.")
	config := DefaultLLMConfig()
	config.Model = "test-model"

	gen := NewGenerator(mockLLM, config)

	ctx := context.Background()
	ans, err := gen.Generate(ctx, "some assembled prompt")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans == nil {
		t.Fatal("answer is nil")
	}
	if ans.Text != "Delivery within Accra takes 24-48 hours." {
		t.Errorf("unexpected answer text: %s", ans.Text)
	}
	if !ans.Grounded {
		t.Error("generated answer should be marked grounded")
	}
	if ans.Model != "test-model" {
		t.Errorf("expected model test-model, got %s", ans.Model)
	}
	if ans.GeneratedAt.IsZero() {
		t.Error("generated timestamp is zero")
	}
	if mockLLM.LastPrompt != "some assembled prompt" {
		t.Error("mock LLM did not receive the prompt")
	}
}

func TestGenerator_Generate_EmptyPrompt(t *testing.T) {
	gen := NewGenerator(NewMockLLM("text"), DefaultLLMConfig())

	_, err := gen.Generate(context.Background(), "")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_Generate_LLMError(t *testing.T) {
	llmErr := errors.New("API rate limit exceeded")
	gen := NewGenerator(NewMockLLMWithError(llmErr), DefaultLLMConfig())

	_, err := gen.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error from LLM")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if !errors.Is(err, llmErr) {
		t.Errorf("expected wrapped LLM error, got %v", err)
	}
}

func TestGenerator_Generate_EmptyCompletion(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "empty", response: " "},
		{name: "whitespace", response: "\n\t  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(NewMockLLM(tt.response), DefaultLLMConfig())

			_, err := gen.Generate(context.Background(), "prompt")
			if !errors.Is(err, ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed for empty completion, got %v", err)
			}
		})
	}
}

func TestGenerator_Generate_TrimsWhitespace(t *testing.T) {
	gen := NewGenerator(NewMockLLM("  answer text \n"), DefaultLLMConfig())

	ans, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text != "answer text" {
		t.Errorf("expected trimmed text, got %q", ans.Text)
	}
}

func TestMockLLM_DefersOnSentinel(t *testing.T) {
	mock := &MockLLM{} // no fixed response

	prompt, err := BuildPrompt(DefaultPromptTemplate(), NoContextSentinel, "what is the meaning of life")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := mock.Generate(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "don't have that information") {
		t.Errorf("mock should defer when context is the sentinel, got %q", text)
	}
}
