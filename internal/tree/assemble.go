package tree

import (
	"fmt"
	"regexp"
	"strings"
)

var nodeIDSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RootID is the fixed id of the virtual root node.
const RootID = "root"

// Assemble builds one tree from the final ordered section list using a
// level stack: each section attaches under the nearest preceding section of
// strictly lower level; equal levels become siblings. Malformed level
// sequences (decreasing, oscillating) cannot fail — popping always
// terminates at the root.
func Assemble(docID string, sections []Section, rootContent string, maxDepth int) *DocumentTree {
	root := &Node{
		ID:      RootID,
		Heading: "ROOT",
		Level:   0,
		Content: trimmed(rootContent),
	}
	t := &DocumentTree{DocID: docID, Root: root}

	stack := []*Node{root}
	seenIDs := make(map[string]int)

	for _, section := range sections {
		level := section.Level
		if level < 1 {
			level = 1
		}
		if level > maxDepth {
			level = maxDepth
		}

		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		node := &Node{
			ID:          makeNodeID(docID, section, seenIDs),
			Heading:     section.Heading,
			Level:       level,
			Content:     trimmed(section.Content),
			HeadingPath: JoinPath(parent.HeadingPath, section.Heading),
		}
		parent.Children = append(parent.Children, node)
		t.arena = append(t.arena, node)
		stack = append(stack, node)
	}

	t.RecomputeCounts()
	return t
}

// makeNodeID derives a stable node id from the document id and the section's
// numbering token (or its ordinal), deduplicated with a _n<k> suffix.
func makeNodeID(docID string, section Section, seen map[string]int) string {
	raw := section.Numbering
	if raw == "" {
		raw = fmt.Sprintf("s%d", section.Index)
	}
	suffix := strings.Trim(nodeIDSanitizeRe.ReplaceAllString(raw, "_"), "_")
	if suffix == "" {
		suffix = fmt.Sprintf("s%d", section.Index)
	}

	base := docID + "_" + suffix
	count := seen[base]
	seen[base] = count + 1
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s_n%d", base, count)
}
