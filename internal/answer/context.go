package answer

import (
	"strings"

	"github.com/groomlane/concierge/internal/knowledge"
)

// NoContextSentinel is the context block used when retrieval produced no
// chunks. The prompt rules key off this value to tell the model to defer to
// the human support channel instead of guessing.
const NoContextSentinel = "No internal context found."

// chunkDelimiter separates chunk contents in the assembled block.
const chunkDelimiter = "\n\n"

// AssembleContext concatenates retrieved chunk contents in ranked order into
// one context block. The block never exceeds budget characters: chunks are
// dropped from the lowest-ranked end until it fits. A budget <= 0 means
// unbounded. Returns the sentinel when no chunk survives.
func AssembleContext(chunks []knowledge.RetrievedChunk, budget int) string {
	if len(chunks) == 0 {
		return NoContextSentinel
	}

	kept := len(chunks)
	if budget > 0 {
		for kept > 0 && contextLength(chunks[:kept]) > budget {
			kept--
		}
	}

	if kept == 0 {
		return NoContextSentinel
	}

	parts := make([]string, kept)
	for i, c := range chunks[:kept] {
		parts[i] = c.Chunk.Content
	}

	return strings.Join(parts, chunkDelimiter)
}

func contextLength(chunks []knowledge.RetrievedChunk) int {
	total := 0
	for i, c := range chunks {
		if i > 0 {
			total += len(chunkDelimiter)
		}
		total += len(c.Chunk.Content)
	}
	return total
}
