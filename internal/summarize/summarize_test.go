package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/structree/internal/tree"
)

// recordingSummarizer tracks which nodes were summarized as leaves vs parents.
type recordingSummarizer struct {
	leafCalls   []string
	parentCalls map[string][]string
	failFor     string
}

func newRecording() *recordingSummarizer {
	return &recordingSummarizer{parentCalls: make(map[string][]string)}
}

func (r *recordingSummarizer) SummarizeLeaf(_ context.Context, heading, content string) (string, error) {
	if heading == r.failFor {
		return "", errors.New("boom")
	}
	r.leafCalls = append(r.leafCalls, heading)
	return "leaf:" + heading, nil
}

func (r *recordingSummarizer) SummarizeParent(_ context.Context, heading string, childSummaries []string, _ string) (string, error) {
	if heading == r.failFor {
		return "", errors.New("boom")
	}
	r.parentCalls[heading] = childSummaries
	return "parent:" + heading, nil
}

func buildTree(t *testing.T) *tree.DocumentTree {
	t.Helper()
	secs := []tree.Section{
		{Index: 1, Heading: "A", Level: 1, Content: "a text"},
		{Index: 2, Heading: "B", Level: 2, Content: "b text"},
		{Index: 3, Heading: "C", Level: 2, Content: "c text"},
	}
	return tree.Assemble("doc", secs, "", 3)
}

func TestApplyBottomUp(t *testing.T) {
	tr := buildTree(t)
	rec := newRecording()

	n, warnings := Apply(context.Background(), tr, rec)
	if n != 3 || len(warnings) != 0 {
		t.Fatalf("summarized %d with warnings %v", n, warnings)
	}

	// Leaves B and C summarized directly; parent A from child summaries.
	if len(rec.leafCalls) != 2 {
		t.Errorf("leaf calls = %v", rec.leafCalls)
	}
	children := rec.parentCalls["A"]
	if len(children) != 2 || !strings.HasPrefix(children[0], "B: leaf:B") {
		t.Errorf("A child summaries = %v", children)
	}

	for _, heading := range []string{"A", "B", "C"} {
		node := findNode(tr, heading)
		if node.Summary == "" {
			t.Errorf("%s has no summary", heading)
		}
	}
	if tr.Root.Summary != "" {
		t.Error("root should not be summarized")
	}
}

func TestApplyErrorIsWarning(t *testing.T) {
	tr := buildTree(t)
	rec := newRecording()
	rec.failFor = "B"

	n, warnings := Apply(context.Background(), tr, rec)
	if n != 2 {
		t.Errorf("summarized = %d, want 2", n)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "boom") {
		t.Errorf("warnings = %v", warnings)
	}
	if findNode(tr, "B").Summary != "" {
		t.Error("failed node should keep an empty summary")
	}
	if findNode(tr, "A").Summary == "" {
		t.Error("parent should still be summarized")
	}
}

func TestApplyNilSummarizer(t *testing.T) {
	tr := buildTree(t)
	n, warnings := Apply(context.Background(), tr, nil)
	if n != 0 || warnings != nil {
		t.Errorf("nil summarizer should be a no-op, got (%d, %v)", n, warnings)
	}
}

func TestApplyPreambles(t *testing.T) {
	tr := buildTree(t)
	rec := newRecording()
	Apply(context.Background(), tr, rec)
	tree.InjectPreambles(tr)

	n, warnings := ApplyPreambles(context.Background(), tr, rec)
	if n != 1 || len(warnings) != 0 {
		t.Fatalf("preambles summarized = %d, warnings = %v", n, warnings)
	}
	pre := findNode(tr, "A (Preamble)")
	if pre == nil || pre.Summary != "leaf:A (Preamble)" {
		t.Errorf("preamble summary missing")
	}
	// Parent summary from the main pass stays.
	if findNode(tr, "A").Summary != "parent:A" {
		t.Error("parent summary must not change during preamble pass")
	}
}

func TestTruncating(t *testing.T) {
	tr := &Truncating{MaxChars: 10}

	got, err := tr.SummarizeLeaf(context.Background(), "H", "one two three four five")
	if err != nil {
		t.Fatal(err)
	}
	if got != "one two th..." {
		t.Errorf("summary = %q", got)
	}

	got, _ = tr.SummarizeLeaf(context.Background(), "H", "   ")
	if got != noContentPlaceholder {
		t.Errorf("empty content = %q", got)
	}

	got, _ = tr.SummarizeParent(context.Background(), "H", nil, "")
	if got != noChildrenPlaceholder {
		t.Errorf("no children = %q", got)
	}

	got, _ = tr.SummarizeParent(context.Background(), "H", []string{"short"}, "")
	if got != "short" {
		t.Errorf("parent from children = %q", got)
	}
}

func findNode(t *tree.DocumentTree, heading string) *tree.Node {
	for _, n := range tree.PreOrder(t.Root) {
		if n.Heading == heading {
			return n
		}
	}
	return nil
}
