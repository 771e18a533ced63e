// Package support orchestrates the retrieval-augmented answering pipeline
// behind the storefront chat widget: embed the question, retrieve relevant
// knowledge, assemble a bounded context, build a grounded prompt, generate
// an answer. Every failure path ends in either a typed input error or the
// fixed fallback message; no raw error ever reaches the customer.
package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/groomlane/concierge/internal/answer"
	"github.com/groomlane/concierge/internal/knowledge"
	"go.uber.org/zap"
)

var (
	// ErrEmptyQuestion is returned for blank input before any remote
	// call is made. It is a usage error, not a pipeline failure.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// Options holds the answering tunables. All of these are configuration,
// not constants: retrieval quality is workload-dependent and needs
// calibration without code changes.
type Options struct {
	// ContextBudget is the maximum assembled context size in characters.
	ContextBudget int

	// CallTimeout bounds each remote call. A call that exceeds it is
	// treated exactly like a remote failure at that stage.
	CallTimeout time.Duration

	// FallbackMessage is the fixed local response for failure paths.
	// It must never depend on a remote call.
	FallbackMessage string

	// Template carries the persona, rules and fixed facts for prompts.
	Template answer.PromptTemplate
}

// DefaultOptions returns the production answering defaults.
func DefaultOptions() Options {
	tpl := answer.DefaultPromptTemplate()
	return Options{
		ContextBudget: 6000,
		CallTimeout:   15 * time.Second,
		FallbackMessage: fmt.Sprintf(
			"Sorry, I can't help with that right now. Please contact us on %s and we'll sort you out.",
			tpl.Contact),
		Template: tpl,
	}
}

// Pipeline answers customer questions. It is stateless: every question is an
// independent request and concurrent use needs no coordination.
type Pipeline struct {
	retriever *knowledge.Retriever
	generator *answer.Generator
	opts      Options
	logger    *zap.Logger
}

// NewPipeline assembles a pipeline from its components.
func NewPipeline(retriever *knowledge.Retriever, generator *answer.Generator, opts Options, logger *zap.Logger) (*Pipeline, error) {
	if retriever == nil {
		return nil, fmt.Errorf("retriever cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if opts.FallbackMessage == "" {
		return nil, fmt.Errorf("fallback message cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		retriever: retriever,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Answer runs the full pipeline for one question and always returns either a
// grounded answer or the fallback message. The only error it returns is
// ErrEmptyQuestion, raised before any remote call.
//
// Failure policy per stage:
//   - embedding fails: fallback (no retrieval is possible without a vector)
//   - retrieval fails: continue with no context (an outage should degrade
//     answer quality, not availability)
//   - generation fails: fallback
func (p *Pipeline) Answer(ctx context.Context, question string) (*answer.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	// Stage 1: embed the question.
	vector, err := p.embed(ctx, question)
	if err != nil {
		p.logger.Error("question embedding failed", zap.Error(err))
		return p.fallback(), nil
	}

	// Stage 2: retrieve. A store outage degrades to an empty result.
	chunks, err := p.retrieve(ctx, vector)
	if err != nil {
		p.logger.Warn("retrieval failed, answering without context", zap.Error(err))
		chunks = nil
	}
	p.logger.Debug("retrieved context", zap.Int("chunks", len(chunks)))

	// Stages 3-4: assemble context and build the prompt. Both are local.
	contextBlock := answer.AssembleContext(chunks, p.opts.ContextBudget)

	prompt, err := answer.BuildPrompt(p.opts.Template, contextBlock, question)
	if err != nil {
		// Unreachable for a validated question; kept so a template bug
		// still yields a usable response.
		p.logger.Error("prompt assembly failed", zap.Error(err))
		return p.fallback(), nil
	}

	// Stage 5: generate.
	ans, err := p.generate(ctx, prompt)
	if err != nil {
		p.logger.Error("answer generation failed", zap.Error(err))
		return p.fallback(), nil
	}

	p.logger.Info("answered question",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("answer_chars", len(ans.Text)))

	return ans, nil
}

func (p *Pipeline) embed(ctx context.Context, question string) ([]float32, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.retriever.EmbedQuery(ctx, question)
}

func (p *Pipeline) retrieve(ctx context.Context, vector []float32) ([]knowledge.RetrievedChunk, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.retriever.SearchByVector(ctx, vector)
}

func (p *Pipeline) generate(ctx context.Context, prompt string) (*answer.Answer, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.generator.Generate(ctx, prompt)
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.opts.CallTimeout)
}

// fallback builds the fixed local response. It performs no remote calls, so
// the pipeline always terminates with a usable answer.
func (p *Pipeline) fallback() *answer.Answer {
	return &answer.Answer{
		Text:        p.opts.FallbackMessage,
		Grounded:    false,
		GeneratedAt: time.Now(),
	}
}
