package reasoner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sweetpotato0/sleuth/inquiry"
)

const defaultSystemPrompt = `You are an investigator answering a question by searching an evidence store.

Process:
1. Analyse the question to identify key concepts worth searching for.
2. Search with the issue_query tool. The search is semantic; boolean operators are not supported.
3. Review the pending results and keep only relevant items with accept_evidence. Pass an empty id list to record that nothing was relevant.
4. When the accepted evidence answers the question, call submit_answer with a confidence of low, medium or high.

Rules:
- Call exactly one tool per turn.
- Only accepted evidence backs your answer; pending results you never accept are discarded.
- Issuing a new query throws away any pending results you have not filtered yet.
- If repeated searches find nothing, submit a low-confidence answer saying so rather than searching forever.`

// renderSnapshot turns the session snapshot into the user message for one
// reasoning turn.
func renderSnapshot(snap inquiry.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question:\n%s\n\n", snap.Question)
	fmt.Fprintf(&b, "Iteration %d of %d.\n\n", snap.Iteration, snap.MaxIterations)

	if len(snap.Ledger) == 0 {
		b.WriteString("Evidence ledger: empty. No searches have completed yet.\n")
	} else {
		b.WriteString("Evidence ledger so far:\n")
		for i, q := range snap.Ledger {
			fmt.Fprintf(&b, "%d. query %q -> %d accepted\n", i+1, q.Text, len(q.Evidence))
			for _, ev := range q.Evidence {
				fmt.Fprintf(&b, "   [%s] %s\n", ev.ID, ev.Text)
			}
		}
	}
	b.WriteString("\n")

	if snap.Pending == nil {
		b.WriteString("Pending results: none. Issue a query or submit your answer.\n")
	} else {
		fmt.Fprintf(&b, "Pending results for query %q (unfiltered, awaiting accept_evidence):\n", snap.Pending.Query)
		if len(snap.Pending.Records) == 0 {
			b.WriteString("  (no records returned; accept an empty id list to record that)\n")
		}
		for _, rec := range snap.Pending.Records {
			fmt.Fprintf(&b, "  id=%s %s\n", rec.ID, rec.Text)
			keys := make([]string, 0, len(rec.Metadata))
			for k := range rec.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "    %s: %s\n", k, rec.Metadata[k])
			}
		}
	}
	b.WriteString("\nCall exactly one tool now.")
	return b.String()
}
