// Package tree holds the document tree model: stack-based assembly from
// leveled sections, idempotent structural repair, and preamble-leaf
// injection. Ownership runs strictly parent -> children; nodes carry no
// parent reference, traversals that need one carry it explicitly.
package tree

import "strings"

// Node is one section of the document tree. Leafness is derived from the
// children list, never stored.
type Node struct {
	ID          string  `json:"node_id"`
	Heading     string  `json:"heading"`
	Level       int     `json:"level"` // 0 only for the virtual root
	Content     string  `json:"content"`
	Summary     string  `json:"summary"`
	HeadingPath string  `json:"heading_path"`
	Children    []*Node `json:"children"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// DocumentTree owns the whole node forest via its root.
type DocumentTree struct {
	DocID     string
	Root      *Node
	NodeCount int // non-root nodes
	LeafCount int

	// arena lists every non-root node ever attached, in creation order. It
	// backs orphan detection in Repair and stays consistent with the tree:
	// pruning removes entries, injection appends them.
	arena []*Node
}

// Section is one leveled heading with its raw content span, the input to
// Assemble.
type Section struct {
	Index     int // 1-based document order
	Heading   string
	Numbering string
	Level     int
	Content   string
}

// PreOrder returns root's subtree in pre-order, including root.
func PreOrder(root *Node) []*Node {
	var ordered []*Node
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ordered = append(ordered, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return ordered
}

// PostOrder returns root's subtree in post-order, root last.
func PostOrder(root *Node) []*Node {
	var ordered []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, child := range n.Children {
			visit(child)
		}
		ordered = append(ordered, n)
	}
	visit(root)
	return ordered
}

// Walk visits every node pre-order, passing the parent explicitly (nil for
// root).
func (t *DocumentTree) Walk(fn func(n, parent *Node)) {
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		fn(n, parent)
		for _, child := range n.Children {
			visit(child, n)
		}
	}
	visit(t.Root, nil)
}

// Leaves returns all leaf nodes in document (pre-order) order, root included
// only when it has no children.
func (t *DocumentTree) Leaves() []*Node {
	var leaves []*Node
	for _, n := range PreOrder(t.Root) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// RecomputeCounts refreshes node and leaf counts. Called after every
// structural mutation so the counts never go stale.
func (t *DocumentTree) RecomputeCounts() {
	t.NodeCount = 0
	t.LeafCount = 0
	for _, n := range PreOrder(t.Root) {
		if n.Level == 0 {
			continue
		}
		t.NodeCount++
		if n.IsLeaf() {
			t.LeafCount++
		}
	}
}

// JoinPath derives a child's heading path from its parent's. The root
// contributes an empty prefix.
func JoinPath(parentPath, heading string) string {
	if parentPath == "" {
		return heading
	}
	return parentPath + " > " + heading
}

func trimmed(s string) string { return strings.TrimSpace(s) }
