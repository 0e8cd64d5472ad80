// Package advise defines the external structural adviser contract: the
// escalation request/response shapes, prompt construction, the merge policy
// for folding adviser output back into rule results, and a Claude-backed
// implementation. The adviser is consulted only for low-confidence level
// decisions; its absence or failure never prevents tree construction.
package advise

import (
	"context"
	"errors"

	"github.com/dgallion1/structree/internal/anthropic"
	"github.com/dgallion1/structree/internal/infer"
)

// HeadingHint is one heading with its rule-derived level and confidence,
// offered to the adviser as context.
type HeadingHint struct {
	Index      int     `json:"index"`
	Heading    string  `json:"heading"`
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
	Uncertain  bool    `json:"uncertain"`
}

// Request is one escalation call. In full mode Headings carries every heading
// of the document; in partial mode only the uncertain ones plus their nearest
// confident neighbors.
type Request struct {
	DocID    string
	MaxDepth int
	Mode     infer.Mode
	Headings []HeadingHint
}

// Suggestion is the adviser's level decision for one requested heading.
type Suggestion struct {
	Index     int    `json:"index"`
	Level     int    `json:"level"`
	Reasoning string `json:"reasoning"`
}

// Adviser is the external structural adviser capability. Implementations must
// be synchronous and honor the context deadline.
type Adviser interface {
	SuggestLevels(ctx context.Context, req Request) ([]Suggestion, error)
}

// IsRetryable reports whether an adviser error is transient.
func IsRetryable(err error) bool {
	var retryErr *anthropic.RetryableError
	return errors.As(err, &retryErr)
}
