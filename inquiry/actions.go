package inquiry

import (
	"context"

	"github.com/sweetpotato0/sleuth/evidence"
)

// Action is the closed set of operations a Reasoner may request from the
// loop. The marker method keeps the variant closed so the session can switch
// over it exhaustively; malformed external input still has to be mapped onto
// one of these types (or an error) by the Reasoner implementation.
type Action interface {
	isAction()
}

// IssueQuery asks the loop to run a search against the evidence source.
// Any unfiltered results from a previous search are discarded first.
type IssueQuery struct {
	Text string
}

// AcceptEvidence selects a subset of the pending buffer by record ID, in
// relevance order. An empty selection is legal and records an explicit
// "no relevant evidence" query in the ledger.
type AcceptEvidence struct {
	IDs []string
}

// SubmitAnswer terminates the loop with the given answer text and confidence
// label. Only ledger evidence backs the answer; pending buffer contents are
// never merged in.
type SubmitAnswer struct {
	Text       string
	Confidence evidence.Confidence
}

func (IssueQuery) isAction()     {}
func (AcceptEvidence) isAction() {}
func (SubmitAnswer) isAction()   {}

// PendingResults is the read-only view of the single-slot buffer handed to
// the Reasoner: the query that produced the records and the records awaiting
// a filter decision.
type PendingResults struct {
	Query   string
	Records []evidence.Record
}

// Snapshot is everything the Reasoner sees for one step: the question, the
// ledger so far and the unfiltered buffer, if any. Snapshots are copies; a
// Reasoner cannot mutate session state through them.
type Snapshot struct {
	Question      string
	Iteration     int
	MaxIterations int
	Ledger        []evidence.Query
	Pending       *PendingResults
}

// Reasoner is the opaque step function at the heart of the loop: from one
// snapshot to exactly one action. All non-determinism lives behind this
// boundary, which is what makes the loop itself deterministic to test.
type Reasoner interface {
	NextAction(ctx context.Context, snap Snapshot) (Action, error)
}
