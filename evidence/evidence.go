// Package evidence defines the data model shared by every evidence source and
// by the inquiry loop: raw search records, accepted evidence with provenance,
// per-query ledger entries and the final cited answer.
package evidence

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Record is a raw search hit as returned by a Source. It carries no
// provenance yet; that is attached when the hit is accepted into a Query.
type Record struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Evidence is a Record that was accepted for a specific query. Immutable once
// created; it belongs to exactly one Query.
type Evidence struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Query       string            `json:"query"` // Query text this item was accepted for
	RetrievedAt time.Time         `json:"retrieved_at"`
}

// Query is one search attempt plus the evidence ultimately accepted from it.
// A Query with zero evidence is a legal, explicit "nothing relevant" marker,
// distinguishable from never having searched at all.
type Query struct {
	Text     string     `json:"text"`
	Evidence []Evidence `json:"evidence"`
	IssuedAt time.Time  `json:"issued_at"`
}

// Confidence is the coarse three-level rating attached to an Answer.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence normalises free-form collaborator output into a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceLow:
		return ConfidenceLow, nil
	case ConfidenceMedium:
		return ConfidenceMedium, nil
	case ConfidenceHigh:
		return ConfidenceHigh, nil
	}
	return "", fmt.Errorf("unknown confidence label %q (valid: low, medium, high)", s)
}

// Answer is the terminal output of an inquiry session: the synthesized answer
// text plus the full query/evidence provenance chain. Created exactly once.
type Answer struct {
	Question   string     `json:"question"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
	Queries    []Query    `json:"queries"`
}

// TotalEvidence sums the accepted evidence across all queries.
func (a *Answer) TotalEvidence() int {
	total := 0
	for _, q := range a.Queries {
		total += len(q.Evidence)
	}
	return total
}

// QueryCount returns the number of ledger queries behind this answer.
func (a *Answer) QueryCount() int {
	return len(a.Queries)
}

// Source is the pluggable search backend the loop gathers evidence from.
// Implementations must be safe to call repeatedly with the same text and may
// return zero records. Retry and backoff policies are the implementation's
// concern; the loop only sees an eventual result or an error.
type Source interface {
	Search(ctx context.Context, query string) ([]Record, error)
}

// Snippet truncates text for display to at most limit runes. It is
// display-only and never changes what is stored in the ledger.
func Snippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
