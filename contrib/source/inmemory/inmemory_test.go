package inmemory

import (
	"context"
	"strings"
	"testing"
)

// keywordEmbedder maps texts onto a fixed keyword axis so similarity is
// deterministic without a real embedding model.
type keywordEmbedder struct {
	keywords []string
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{keywords: []string{"travel", "lisbon", "berlin", "lunch", "planning"}}
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.keywords))
	lower := strings.ToLower(text)
	for i, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) Dimension() int { return len(e.keywords) }

func TestStoreAddAndSearch(t *testing.T) {
	ctx := context.Background()
	store, err := New(newKeywordEmbedder(), 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	texts := []string{
		"Andy travel plans: Lisbon in March.",
		"Berlin conference attended by Andy.",
		"Team lunch in the cafeteria.",
	}
	for i, text := range texts {
		id, err := store.Add(ctx, text, map[string]string{"n": text})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if want := []string{"ev_1", "ev_2", "ev_3"}[i]; id != want {
			t.Errorf("id = %q, want %q", id, want)
		}
	}
	if got := store.Count(); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}

	records, err := store.Search(ctx, "travel to lisbon")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want topK=2", len(records))
	}
	if records[0].ID != "ev_1" {
		t.Errorf("best match = %s, want ev_1", records[0].ID)
	}
	if records[0].Metadata["n"] == "" {
		t.Error("metadata not preserved")
	}
}

func TestStoreSearchEmpty(t *testing.T) {
	store, err := New(newKeywordEmbedder(), 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	records, err := store.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("empty store returned %d records", len(records))
	}
}

func TestStoreValidation(t *testing.T) {
	if _, err := New(nil, 3); err == nil {
		t.Error("expected error for nil embedder")
	}

	store, err := New(newKeywordEmbedder(), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := store.Add(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty text")
	}
}
