package answer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingQuestion = errors.New("question required for prompt assembly")
)

// PromptTemplate holds the static persona and operating rules rendered into
// every prompt. The contact channel and fixed facts are literal template
// text, asserted regardless of what retrieval returned.
type PromptTemplate struct {
	// Persona scopes the assistant to the store's domain.
	Persona string

	// Contact is the human support channel surfaced when the context
	// cannot answer the question.
	Contact string

	// Facts are domain statements always asserted, e.g. standard
	// delivery timelines.
	Facts []string

	// ExtraRules are appended after the built-in grounding rules.
	ExtraRules []string
}

// DefaultPromptTemplate returns the storefront assistant template.
func DefaultPromptTemplate() PromptTemplate {
	return PromptTemplate{
		Persona: "You are the store's AI shopping assistant, an expert in beard care " +
			"and the grooming products this store sells in Ghana.",
		Contact: "WhatsApp +233 53 502 3614",
		Facts: []string{
			"Standard delivery within Accra takes 24-48 hours.",
		},
	}
}

// BuildPrompt renders persona, rules, context and the question into a single
// instruction string. The question goes last, clearly delimited from the
// context, so the model never confuses retrieved text with the user's words.
func BuildPrompt(tpl PromptTemplate, contextBlock, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrMissingQuestion
	}
	if contextBlock == "" {
		contextBlock = NoContextSentinel
	}

	var b strings.Builder

	b.WriteString(tpl.Persona)
	b.WriteString("\nUse the following context to answer the customer.\n\n")

	b.WriteString("RULES:\n")
	b.WriteString("- Answer using ONLY the provided context.\n")
	fmt.Fprintf(&b, "- If the context does not contain the answer (or says %q), say you don't know and point the customer to %s. Never guess.\n",
		NoContextSentinel, tpl.Contact)
	b.WriteString("- Be professional, warm, and concise.\n")
	for _, fact := range tpl.Facts {
		fmt.Fprintf(&b, "- Always true, state when relevant: %s\n", fact)
	}
	for _, rule := range tpl.ExtraRules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}
	b.WriteString("\n")

	b.WriteString("CONTEXT:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\n")

	b.WriteString("CUSTOMER QUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String(), nil
}
