// Package report renders inquiry results as human-readable documents. The
// markdown report shows the full provenance chain: every query issued, every
// piece of evidence accepted for it, and anything left unreviewed at the end.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sweetpotato0/sleuth/evidence"
	"github.com/sweetpotato0/sleuth/inquiry"
)

// Markdown renders a result as a markdown provenance report.
func Markdown(res *inquiry.Result) string {
	if res == nil || res.Answer == nil {
		return ""
	}
	answer := res.Answer

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", answer.Question)
	fmt.Fprintf(&b, "**Answer** (%s confidence): %s\n", answer.Confidence, answer.Text)
	if res.Forced {
		b.WriteString("\n> The answer was synthesized after the iteration budget ran out.\n")
	}

	b.WriteString("\n## Provenance\n\n")
	if len(answer.Queries) == 0 {
		b.WriteString("No queries were issued.\n")
	}
	for i, q := range answer.Queries {
		fmt.Fprintf(&b, "%d. Query: %q\n", i+1, q.Text)
		if len(q.Evidence) == 0 {
			b.WriteString("    - (nothing relevant found)\n")
			continue
		}
		for _, ev := range q.Evidence {
			fmt.Fprintf(&b, "    + [%s] %s\n", sanitize(ev.ID), ev.Text)
		}
	}

	if len(res.UnreviewedBuffer) > 0 {
		b.WriteString("\n## Unreviewed results\n\n")
		b.WriteString("These search results were still pending when the session ended and are not part of the answer:\n\n")
		for _, rec := range res.UnreviewedBuffer {
			fmt.Fprintf(&b, "- [%s] %s\n", sanitize(rec.ID), rec.Text)
		}
	}

	fmt.Fprintf(&b, "\n## Summary\n\nQueries issued: %d\nEvidence accepted: %d\n",
		answer.QueryCount(), answer.TotalEvidence())
	return b.String()
}

// jsonReport mirrors the markdown structure for machine consumption.
type jsonReport struct {
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	Confidence evidence.Confidence `json:"confidence"`
	Forced     bool                `json:"forced"`
	Queries    []evidence.Query    `json:"queries"`
	Unreviewed []evidence.Record   `json:"unreviewed,omitempty"`
	Evidence   int                 `json:"evidence_count"`
}

// JSON renders a result as an indented JSON document.
func JSON(res *inquiry.Result) (string, error) {
	if res == nil || res.Answer == nil {
		return "", fmt.Errorf("result has no answer")
	}
	doc := jsonReport{
		Question:   res.Answer.Question,
		Answer:     res.Answer.Text,
		Confidence: res.Answer.Confidence,
		Forced:     res.Forced,
		Queries:    res.Answer.Queries,
		Unreviewed: res.UnreviewedBuffer,
		Evidence:   res.Answer.TotalEvidence(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// sanitize replaces underscores with hyphens so ids render literally instead
// of triggering markdown italics.
func sanitize(text string) string {
	return strings.ReplaceAll(text, "_", "-")
}
