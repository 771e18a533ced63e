package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrGenerationFailed = errors.New("answer generation failed")
)

// Answer is the final text delivered to the caller: either grounded in
// retrieved context or a locally-built fallback.
type Answer struct {
	// Text is the answer content
	Text string `json:"text"`

	// Grounded reports whether the text came from the generation service
	// (true) or is the fixed fallback message (false)
	Grounded bool `json:"grounded"`

	// GeneratedAt is when this answer was produced
	GeneratedAt time.Time `json:"generated_at"`

	// Model is the LLM model used, empty for fallback answers
	Model string `json:"model,omitempty"`
}

// Generator produces answers from prompts using an LLM.
// It invokes the LLM on an already-assembled prompt; it must not perform
// retrieval or prompt construction.
type Generator struct {
	llm    LLM
	config LLMConfig
}

// NewGenerator creates an answer generator with the given LLM implementation.
func NewGenerator(llm LLM, config LLMConfig) *Generator {
	return &Generator{
		llm:    llm,
		config: config,
	}
}

// Generate invokes the LLM and extracts the answer text. An empty or
// whitespace-only completion counts as a failure: the caller must be able to
// rely on a non-empty Text.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Answer, error) {
	if g.llm == nil {
		return nil, fmt.Errorf("%w: LLM is required", ErrGenerationFailed)
	}
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrGenerationFailed)
	}

	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: LLM invocation failed: %w", ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}

	return &Answer{
		Text:        text,
		Grounded:    true,
		GeneratedAt: time.Now(),
		Model:       g.config.Model,
	}, nil
}
