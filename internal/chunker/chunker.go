// Package chunker produces structure-aware retrieval chunks from a document
// tree: each chunk carries the heading breadcrumb and node id of the section
// it came from.
package chunker

import (
	"strings"

	"github.com/dgallion1/structree/internal/tree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// Chunk is one retrieval unit.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	NodeID     string   `json:"node_id"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
}

// ChunkTree walks the tree in document order and chunks every node's content.
// After preamble injection only leaves carry content, so chunks map 1:N onto
// leaves; the breadcrumb comes from the node's heading path.
func ChunkTree(t *tree.DocumentTree, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var chunks []Chunk
	index := 0

	for _, n := range tree.PreOrder(t.Root) {
		text := strings.TrimSpace(n.Content)
		if text == "" {
			continue
		}
		breadcrumb := breadcrumbOf(n)

		if tokens := EstimateTokens(text); tokens <= cfg.ChunkSize {
			if tokens >= cfg.MinChunk {
				chunks = append(chunks, Chunk{Text: text, Index: index, NodeID: n.ID, Breadcrumb: breadcrumb})
				index++
			}
			continue
		}

		for _, part := range splitText(text, cfg.ChunkSize, cfg.ChunkOverlap) {
			if EstimateTokens(part) >= cfg.MinChunk {
				chunks = append(chunks, Chunk{Text: part, Index: index, NodeID: n.ID, Breadcrumb: breadcrumb})
				index++
			}
		}
	}

	return chunks
}

func breadcrumbOf(n *tree.Node) []string {
	if n.HeadingPath == "" {
		return nil
	}
	return strings.Split(n.HeadingPath, " > ")
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// A single oversized paragraph is split by sentences instead.
		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}
