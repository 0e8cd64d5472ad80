package advise

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgallion1/structree/internal/anthropic"
	"github.com/dgallion1/structree/internal/infer"
)

// ClaudeAdviser consults the Anthropic Messages API for level suggestions.
type ClaudeAdviser struct {
	client *anthropic.Client
}

func NewClaudeAdviser(client *anthropic.Client) *ClaudeAdviser {
	return &ClaudeAdviser{client: client}
}

func (a *ClaudeAdviser) SuggestLevels(ctx context.Context, req Request) ([]Suggestion, error) {
	maxTokens := 800
	if req.Mode == infer.ModeFull {
		maxTokens = 1200
	}

	text, err := a.client.Complete(ctx, systemPrompt, BuildPrompt(req), maxTokens)
	if err != nil {
		return nil, err
	}
	return ParseSuggestions(text)
}

// ParseSuggestions decodes the adviser response: either a JSON object with a
// 'results' key or a bare array. Rows missing an integer index or level are
// skipped; an answer with no usable rows is an error.
func ParseSuggestions(text string) ([]Suggestion, error) {
	var envelope struct {
		Results []Suggestion `json:"results"`
	}
	var rows []Suggestion
	if err := json.Unmarshal([]byte(text), &envelope); err == nil {
		rows = envelope.Results
	} else if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, fmt.Errorf("parse adviser response: %w (raw: %s)", err, anthropic.Truncate(text, 200))
	}

	var suggestions []Suggestion
	for _, row := range rows {
		if row.Level == 0 {
			continue
		}
		suggestions = append(suggestions, row)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("adviser returned no usable level suggestions")
	}
	return suggestions, nil
}
