package tree

import "fmt"

// Repair runs the idempotent structural validation pass: level-gap
// correction, depth clamping, orphan adoption, and empty-node pruning, in
// that order. It returns human-readable descriptions of every fix applied;
// running it twice in succession yields no fixes on the second pass.
func Repair(t *DocumentTree, maxDepth int) []string {
	var fixes []string

	// Level gaps and depth overflow. Pre-order with the parent carried
	// explicitly, so a corrected parent level is in place before its
	// children are checked. Parent/child edges are never relocated.
	t.Walk(func(n, parent *Node) {
		if parent == nil {
			return
		}
		if n.Level > parent.Level+1 {
			old := n.Level
			n.Level = parent.Level + 1
			fixes = append(fixes, fmt.Sprintf("level gap adjusted: %s L%d -> L%d", n.Heading, old, n.Level))
		}
		if n.Level > maxDepth {
			old := n.Level
			n.Level = maxDepth
			fixes = append(fixes, fmt.Sprintf("depth overflow adjusted: %s L%d -> L%d", n.Heading, old, n.Level))
		}
	})

	// Orphan adoption. Should not occur given stack assembly; guards against
	// upstream changes that register nodes without attaching them.
	reachable := make(map[*Node]bool)
	for _, n := range PreOrder(t.Root) {
		reachable[n] = true
	}
	for _, n := range t.arena {
		if reachable[n] {
			continue
		}
		n.Level = 1
		n.HeadingPath = JoinPath("", n.Heading)
		t.Root.Children = append(t.Root.Children, n)
		reachable[n] = true
		fixes = append(fixes, fmt.Sprintf("orphan node adopted: %s", n.Heading))
	}

	// Empty-node pruning, post-order so cascading prunes finish in one pass.
	pruned := make(map[*Node]bool)
	var prune func(n *Node)
	prune = func(n *Node) {
		for _, child := range n.Children {
			prune(child)
		}
		kept := n.Children[:0]
		for _, child := range n.Children {
			if child.IsLeaf() && trimmed(child.Content) == "" && trimmed(child.Summary) == "" {
				pruned[child] = true
				fixes = append(fixes, fmt.Sprintf("empty node pruned: %s", child.Heading))
				continue
			}
			kept = append(kept, child)
		}
		n.Children = kept
	}
	prune(t.Root)

	if len(pruned) > 0 {
		kept := t.arena[:0]
		for _, n := range t.arena {
			if !pruned[n] {
				kept = append(kept, n)
			}
		}
		t.arena = kept
	}

	t.RecomputeCounts()
	return fixes
}
