package shop

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/groomlane/concierge/internal/knowledge"
)

// ProductChunks renders catalog products as knowledge chunks so the
// assistant can answer questions about what the store sells. One chunk per
// product keeps retrieval granular.
func ProductChunks(products []Product) []knowledge.Chunk {
	chunks := make([]knowledge.Chunk, 0, len(products))
	for _, p := range products {
		content := productText(p)
		if content == "" {
			continue
		}
		chunks = append(chunks, knowledge.Chunk{
			ID:       chunkID("product", p.ID),
			Content:  content,
			Category: "product",
			Source:   "catalog:" + p.ID,
		})
	}
	return chunks
}

// PolicyChunks renders store policies as knowledge chunks.
func PolicyChunks(policies []Policy) []knowledge.Chunk {
	chunks := make([]knowledge.Chunk, 0, len(policies))
	for _, pol := range policies {
		body := strings.TrimSpace(pol.Body)
		if body == "" {
			continue
		}
		category := pol.Category
		if category == "" {
			category = "policy"
		}
		content := body
		if pol.Title != "" {
			content = pol.Title + ": " + body
		}
		chunks = append(chunks, knowledge.Chunk{
			ID:       chunkID("policy", pol.Title),
			Content:  content,
			Category: category,
			Source:   "policy",
		})
	}
	return chunks
}

func productText(p Product) string {
	var b strings.Builder

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ""
	}
	b.WriteString(name)

	if desc := strings.TrimSpace(p.Description); desc != "" {
		b.WriteString(": ")
		b.WriteString(desc)
	}
	if p.Price > 0 {
		currency := p.Currency
		if currency == "" {
			currency = "GHS"
		}
		fmt.Fprintf(&b, " Price: %s %.2f.", currency, p.Price)
	}
	if !p.InStock {
		b.WriteString(" Currently out of stock.")
	}

	return b.String()
}

// chunkID derives a stable ID from the source identity so re-ingesting the
// same product or policy updates its chunk instead of duplicating it.
func chunkID(kind, key string) string {
	if key == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+key)).String()
}
