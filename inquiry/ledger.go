package inquiry

import (
	"fmt"
	"time"

	"github.com/sweetpotato0/sleuth/evidence"
)

// ledger is the append-only record of completed filter steps. Queries are
// never mutated after being appended.
type ledger struct {
	queries []evidence.Query
}

func (l *ledger) append(q evidence.Query) {
	l.queries = append(l.queries, q)
}

func (l *ledger) totalEvidence() int {
	total := 0
	for _, q := range l.queries {
		total += len(q.Evidence)
	}
	return total
}

// snapshot returns a copy safe to hand across the reasoner boundary.
func (l *ledger) snapshot() []evidence.Query {
	if len(l.queries) == 0 {
		return nil
	}
	out := make([]evidence.Query, len(l.queries))
	for i, q := range l.queries {
		cp := q
		cp.Evidence = append([]evidence.Evidence(nil), q.Evidence...)
		out[i] = cp
	}
	return out
}

// buffer is the single-slot holding area for the most recent unfiltered
// search result. Filling it discards whatever was there before; at most one
// result set is ever pending.
type buffer struct {
	query       string
	records     []evidence.Record
	retrievedAt time.Time
	full        bool
}

func (b *buffer) replace(query string, records []evidence.Record, at time.Time) {
	b.query = query
	b.records = records
	b.retrievedAt = at
	b.full = true
}

func (b *buffer) clear() {
	*b = buffer{}
}

func (b *buffer) snapshot() *PendingResults {
	if !b.full {
		return nil
	}
	return &PendingResults{
		Query:   b.query,
		Records: append([]evidence.Record(nil), b.records...),
	}
}

// take validates the selection against the buffered records and returns the
// matching records in the order the IDs were given. The buffer is left
// untouched on failure so the reasoner can retry with a corrected selection.
func (b *buffer) take(ids []string) ([]evidence.Record, error) {
	if !b.full {
		return nil, fmt.Errorf("%w: no search results are pending", ErrInvalidSelection)
	}
	byID := make(map[string]evidence.Record, len(b.records))
	for _, r := range b.records {
		byID[r.ID] = r
	}
	seen := make(map[string]bool, len(ids))
	selected := make([]evidence.Record, 0, len(ids))
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %q", ErrInvalidSelection, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: id %q selected twice", ErrInvalidSelection, id)
		}
		seen[id] = true
		selected = append(selected, rec)
	}
	return selected, nil
}
