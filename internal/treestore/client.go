// Package treestore pushes finished document trees to an external key-value
// tree store over its HTTP API. The store is optional; when unconfigured the
// service keeps results in memory only.
package treestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client communicates with the tree store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NodeRecord is the stored value for one tree node. Children are referenced
// by id, not embedded; the key hierarchy mirrors the tree.
type NodeRecord struct {
	DocID       string   `json:"doc_id"`
	Heading     string   `json:"heading"`
	Level       int      `json:"level"`
	Content     string   `json:"content,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	HeadingPath string   `json:"heading_path"`
	ChildIDs    []string `json:"child_ids,omitempty"`
}

// StatusError is a non-2xx store response. Worker retry policy keys off the
// status code.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("treestore: status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is worth retrying.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NodeKey is the store key for one node of one document.
func NodeKey(docID, nodeID string) string {
	return "trees/" + docID + "/" + nodeID
}

// PutNode stores or updates one node record.
func (c *Client) PutNode(ctx context.Context, key string, rec NodeRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return nil
}

// DeleteTree removes every stored node of a document with one recursive
// delete on the document prefix.
func (c *Client) DeleteTree(ctx context.Context, docID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/kv/trees/"+docID+"?children=true", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
