// Package render serializes a document tree for inspection: canonical JSON,
// an ASCII outline for terminals, and an HTML rendition of the content.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"

	"github.com/dgallion1/structree/internal/tree"
)

type nodeView struct {
	ID          string     `json:"node_id"`
	Heading     string     `json:"heading"`
	Level       int        `json:"level"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary"`
	HeadingPath string     `json:"heading_path"`
	IsLeaf      bool       `json:"is_leaf"`
	Children    []nodeView `json:"children"`
}

type treeView struct {
	DocID     string   `json:"doc_id"`
	NodeCount int      `json:"node_count"`
	LeafCount int      `json:"leaf_count"`
	Tree      nodeView `json:"tree"`
}

func toView(n *tree.Node) nodeView {
	v := nodeView{
		ID:          n.ID,
		Heading:     n.Heading,
		Level:       n.Level,
		Content:     n.Content,
		Summary:     n.Summary,
		HeadingPath: n.HeadingPath,
		IsLeaf:      n.IsLeaf(),
		Children:    []nodeView{},
	}
	for _, child := range n.Children {
		v.Children = append(v.Children, toView(child))
	}
	return v
}

// TreeJSON renders the full tree as indented JSON with derived leaf flags.
func TreeJSON(t *tree.DocumentTree) ([]byte, error) {
	view := treeView{
		DocID:     t.DocID,
		NodeCount: t.NodeCount,
		LeafCount: t.LeafCount,
		Tree:      toView(t.Root),
	}
	return json.MarshalIndent(view, "", "  ")
}

// TreeASCII renders a box-drawing outline of the tree, one node per line with
// its level, content size, and a one-line summary preview.
func TreeASCII(t *tree.DocumentTree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d nodes, %d leaves)\n", t.DocID, t.NodeCount, t.LeafCount)
	renderASCII(&b, t.Root, "")
	return b.String()
}

func renderASCII(b *strings.Builder, n *tree.Node, prefix string) {
	for i, child := range n.Children {
		connector := "|-- "
		childPrefix := prefix + "|   "
		if i == len(n.Children)-1 {
			connector = "`-- "
			childPrefix = prefix + "    "
		}

		fmt.Fprintf(b, "%s%s[L%d] %s (%d chars)", prefix, connector, child.Level, child.Heading, utf8.RuneCountInString(child.Content))
		if child.IsLeaf() {
			b.WriteString(" <- LEAF")
		}
		b.WriteString("\n")

		if child.Summary != "" {
			fmt.Fprintf(b, "%s~ %s\n", childPrefix, previewLine(child.Summary, 80))
		}
		renderASCII(b, child, childPrefix)
	}
}

func previewLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// TreeHTML renders the tree as a standalone HTML document: headings become
// <h1>..<h6> and node content is converted from markdown.
func TreeHTML(t *tree.DocumentTree) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(t.DocID))
	b.WriteString("</head>\n<body>\n")

	for _, n := range tree.PreOrder(t.Root) {
		if n.Level == 0 {
			if strings.TrimSpace(n.Content) != "" {
				if err := goldmark.Convert([]byte(n.Content), &b); err != nil {
					return nil, fmt.Errorf("render content: %w", err)
				}
			}
			continue
		}

		level := n.Level
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(n.Heading), level)
		if strings.TrimSpace(n.Content) != "" {
			if err := goldmark.Convert([]byte(n.Content), &b); err != nil {
				return nil, fmt.Errorf("render content: %w", err)
			}
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}
