package pipeline

import (
	"sync"

	"github.com/dgallion1/structree/internal/builder"
	"github.com/dgallion1/structree/internal/chunker"
	"github.com/dgallion1/structree/internal/tree"
)

// Result is the finished output of one document build.
type Result struct {
	DocID    string
	Filename string
	Title    string
	Tree     *tree.DocumentTree
	Report   *builder.Report
	Chunks   []chunker.Chunk
}

// ResultStore is the in-memory registry of completed builds, keyed by doc id.
type ResultStore struct {
	mu      sync.Mutex
	results map[string]*Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]*Result)}
}

func (s *ResultStore) Put(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.DocID] = r
}

func (s *ResultStore) Get(docID string) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[docID]
}

func (s *ResultStore) Delete(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[docID]; !ok {
		return false
	}
	delete(s.results, docID)
	return true
}

// List returns the doc ids of all stored results.
func (s *ResultStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.results))
	for id := range s.results {
		ids = append(ids, id)
	}
	return ids
}
