package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/structree/internal/tree"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty = %d", got)
	}
	if got := EstimateTokens("one two three"); got != 3 {
		t.Errorf("three words = %d", got)
	}
	if got := EstimateTokens("x"); got < 1 {
		t.Errorf("single char = %d", got)
	}
}

func TestChunkTreeSmallSectionsOneChunkEach(t *testing.T) {
	secs := []tree.Section{
		{Index: 1, Heading: "A", Level: 1, Content: words(200)},
		{Index: 2, Heading: "B", Level: 2, Content: words(200)},
	}
	tr := tree.Assemble("doc", secs, "", 3)
	chunks := ChunkTree(tr, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100})

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[0].NodeID == "" || chunks[1].NodeID == "" {
		t.Error("chunks should carry their node id")
	}
	if got := chunks[1].Breadcrumb; len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("breadcrumb = %v", got)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
}

func TestChunkTreeSplitsLargeSection(t *testing.T) {
	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = words(300)
	}
	secs := []tree.Section{
		{Index: 1, Heading: "Big", Level: 1, Content: strings.Join(paragraphs, "\n\n")},
	}
	tr := tree.Assemble("doc", secs, "", 3)
	chunks := ChunkTree(tr, Config{ChunkSize: 1000, ChunkOverlap: 100, MinChunk: 50})

	if len(chunks) < 2 {
		t.Fatalf("large section should split, got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if c.NodeID != chunks[0].NodeID {
			t.Error("all chunks of one section share the node id")
		}
		if tokens := EstimateTokens(c.Text); tokens > 1400 {
			t.Errorf("chunk of %d tokens exceeds target", tokens)
		}
	}
}

func TestChunkTreeSkipsTiny(t *testing.T) {
	secs := []tree.Section{
		{Index: 1, Heading: "Tiny", Level: 1, Content: "too small"},
	}
	tr := tree.Assemble("doc", secs, "", 3)
	chunks := ChunkTree(tr, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100})
	if len(chunks) != 0 {
		t.Errorf("sub-minimum content should produce no chunks, got %d", len(chunks))
	}
}

func TestChunkTreeRootContent(t *testing.T) {
	tr := tree.Assemble("doc", nil, words(150), 3)
	chunks := ChunkTree(tr, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100})
	if len(chunks) != 1 {
		t.Fatalf("root content should chunk, got %d", len(chunks))
	}
	if chunks[0].Breadcrumb != nil {
		t.Errorf("root breadcrumb = %v", chunks[0].Breadcrumb)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second one! Third?")
	if len(got) != 3 {
		t.Errorf("sentences = %v", got)
	}
}
