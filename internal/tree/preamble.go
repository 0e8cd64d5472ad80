package tree

import "strings"

// PreambleIDSuffix marks injected preamble leaves.
const PreambleIDSuffix = "_preamble"

// preambleHeadingSuffix is appended to the parent heading.
const preambleHeadingSuffix = " (Preamble)"

// IsPreamble reports whether a node is an injected preamble leaf.
func IsPreamble(n *Node) bool {
	return strings.HasSuffix(n.ID, PreambleIDSuffix)
}

// InjectPreambles gives every non-leaf node with direct body text a synthetic
// first-child leaf owning that text, then clears the parent's content. This
// is the second, explicitly later phase: callers run it only after the
// pre-injection tree has been consumed (e.g. for summarization). The new leaf
// sits at parent level + 1 with no depth re-clamp — preamble depth is exempt
// from the max-depth bound because the leaf is structurally inside its
// parent, not a new outline level. Parent summaries are left untouched and
// no repair pass is needed afterwards: the leaf never introduces a level
// gap. Returns the number of leaves injected.
func InjectPreambles(t *DocumentTree) int {
	injected := 0

	for _, n := range PostOrder(t.Root) {
		if n.IsLeaf() {
			continue
		}
		if trimmed(n.Content) == "" {
			continue
		}

		heading := n.Heading + preambleHeadingSuffix
		preamble := &Node{
			ID:          n.ID + PreambleIDSuffix,
			Heading:     heading,
			Level:       n.Level + 1,
			Content:     n.Content,
			HeadingPath: JoinPath(n.HeadingPath, heading),
		}

		n.Children = append([]*Node{preamble}, n.Children...)
		n.Content = ""
		t.arena = append(t.arena, preamble)
		injected++
	}

	t.RecomputeCounts()
	return injected
}

// PreambleLeaves returns all injected preamble leaves in document order.
func PreambleLeaves(t *DocumentTree) []*Node {
	var leaves []*Node
	for _, n := range PreOrder(t.Root) {
		if IsPreamble(n) {
			leaves = append(leaves, n)
		}
	}
	return leaves
}
