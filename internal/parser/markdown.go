package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The text passes through verbatim —
// the engine reads '#' markers itself — but goldmark's AST supplies the
// document title from the first heading.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title := titleFromFilename(filename)
	if h := firstHeading(src); h != "" {
		title = h
	}

	return &Document{
		Title: title,
		Text:  string(src),
	}, nil
}

// firstHeading returns the text of the document's first heading, if any.
func firstHeading(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			return strings.TrimSpace(string(headingText(h, src)))
		}
	}
	return ""
}

func headingText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
		} else {
			buf.Write(headingText(c, src))
		}
	}
	return buf.Bytes()
}
