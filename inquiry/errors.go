package inquiry

import "errors"

// Sentinel errors for the recoverable failure modes of a session iteration.
// None of these abort a run: they are logged, the iteration is consumed
// against the budget, and the loop continues.
var (
	// ErrInvalidAction indicates the reasoner produced something outside the
	// closed action set, or an action with malformed fields.
	ErrInvalidAction = errors.New("invalid reasoner action")

	// ErrInvalidSelection indicates accept-evidence referenced IDs that are
	// not present in the current pending buffer.
	ErrInvalidSelection = errors.New("selection not in pending buffer")

	// ErrSourceFailure indicates the evidence source search failed or timed
	// out for this iteration.
	ErrSourceFailure = errors.New("evidence source failure")
)
