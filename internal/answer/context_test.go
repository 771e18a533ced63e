package answer

import (
	"strings"
	"testing"

	"github.com/groomlane/concierge/internal/knowledge"
)

func scored(id, content string, score float32) knowledge.RetrievedChunk {
	return knowledge.RetrievedChunk{
		Chunk: knowledge.Chunk{ID: id, Content: content},
		Score: score,
	}
}

func TestAssembleContext_Empty(t *testing.T) {
	got := AssembleContext(nil, 1000)
	if got != NoContextSentinel {
		t.Errorf("expected sentinel %q, got %q", NoContextSentinel, got)
	}

	got = AssembleContext([]knowledge.RetrievedChunk{}, 1000)
	if got != NoContextSentinel {
		t.Errorf("expected sentinel %q, got %q", NoContextSentinel, got)
	}
}

func TestAssembleContext_RankedOrder(t *testing.T) {
	chunks := []knowledge.RetrievedChunk{
		scored("a", "First chunk.", 0.9),
		scored("b", "Second chunk.", 0.7),
		scored("c", "Third chunk.", 0.5),
	}

	got := AssembleContext(chunks, 1000)
	want := "First chunk.\n\nSecond chunk.\n\nThird chunk."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssembleContext_BudgetDropsLowestRanked(t *testing.T) {
	chunks := []knowledge.RetrievedChunk{
		scored("a", strings.Repeat("a", 50), 0.9),
		scored("b", strings.Repeat("b", 50), 0.7),
		scored("c", strings.Repeat("c", 50), 0.5),
	}

	// Budget fits two chunks plus one delimiter but not three.
	got := AssembleContext(chunks, 110)

	if len(got) > 110 {
		t.Errorf("assembled context length %d exceeds budget 110", len(got))
	}
	if !strings.Contains(got, strings.Repeat("a", 50)) {
		t.Error("highest-ranked chunk missing from context")
	}
	if !strings.Contains(got, strings.Repeat("b", 50)) {
		t.Error("second-ranked chunk missing from context")
	}
	if strings.Contains(got, "c") {
		t.Error("lowest-ranked chunk should have been dropped")
	}
}

func TestAssembleContext_BudgetExact(t *testing.T) {
	chunks := []knowledge.RetrievedChunk{
		scored("a", "12345", 0.9),
		scored("b", "67890", 0.8),
	}

	// 5 + 2 + 5 = 12 characters exactly.
	got := AssembleContext(chunks, 12)
	if got != "12345\n\n67890" {
		t.Errorf("expected both chunks at exact budget, got %q", got)
	}
}

func TestAssembleContext_BudgetTooSmallForAnyChunk(t *testing.T) {
	chunks := []knowledge.RetrievedChunk{
		scored("a", strings.Repeat("a", 100), 0.9),
	}

	got := AssembleContext(chunks, 10)
	if got != NoContextSentinel {
		t.Errorf("expected sentinel when nothing fits, got %q", got)
	}
}

func TestAssembleContext_UnboundedBudget(t *testing.T) {
	chunks := []knowledge.RetrievedChunk{
		scored("a", strings.Repeat("a", 10000), 0.9),
		scored("b", strings.Repeat("b", 10000), 0.8),
	}

	got := AssembleContext(chunks, 0)
	if len(got) != 20002 {
		t.Errorf("expected all content with budget 0, got %d characters", len(got))
	}
}
