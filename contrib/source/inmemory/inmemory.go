// Package inmemory provides a vector-similarity evidence source backed by
// process memory. Useful for demos and tests, and as the reference
// implementation of the evidence.Source contract.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sweetpotato0/sleuth/embedding"
	"github.com/sweetpotato0/sleuth/evidence"
)

type entry struct {
	id       string
	text     string
	metadata map[string]string
	vector   []float32
}

// Store holds evidence texts and their embeddings in memory and serves
// similarity searches over them.
type Store struct {
	embedder embedding.Embedder
	topK     int

	mu      sync.RWMutex
	entries []entry
}

// New creates an empty in-memory evidence store. topK bounds how many
// records a search returns; values <= 0 default to 3.
func New(embedder embedding.Embedder, topK int) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if topK <= 0 {
		topK = 3
	}
	return &Store{
		embedder: embedder,
		topK:     topK,
	}, nil
}

// Add embeds and stores one piece of evidence text, returning its id.
func (s *Store) Add(ctx context.Context, text string, metadata map[string]string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("evidence text cannot be empty")
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed evidence: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("ev_%d", len(s.entries)+1)
	s.entries = append(s.entries, entry{
		id:       id,
		text:     text,
		metadata: metadata,
		vector:   vec,
	})
	return id, nil
}

// Search implements evidence.Source by cosine similarity over the stored
// embeddings.
func (s *Store) Search(ctx context.Context, query string) ([]evidence.Record, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		entry entry
		score float32
	}
	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.vector) != len(queryVec) {
			continue
		}
		results = append(results, scored{
			entry: e,
			score: embedding.CosineSimilarity(queryVec, e.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	limit := s.topK
	if limit > len(results) {
		limit = len(results)
	}
	records := make([]evidence.Record, limit)
	for i := 0; i < limit; i++ {
		records[i] = evidence.Record{
			ID:       results[i].entry.id,
			Text:     results[i].entry.text,
			Metadata: results[i].entry.metadata,
		}
	}
	return records, nil
}

// Count returns the number of stored evidence items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
