package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sweetpotato0/sleuth/evidence"
	"github.com/sweetpotato0/sleuth/inquiry"
)

func resultFixture() *inquiry.Result {
	return &inquiry.Result{
		Answer: &evidence.Answer{
			Question:   "Where did Andy travel in 2025?",
			Text:       "Lisbon in March and Berlin in June.",
			Confidence: evidence.ConfidenceHigh,
			Queries: []evidence.Query{
				{
					Text: "Andy travel 2025",
					Evidence: []evidence.Evidence{
						{ID: "ev_1", Text: "Andy flew to Lisbon on 2025-03-14."},
						{ID: "ev_3", Text: "Berlin conference June 2-5 2025."},
					},
				},
				{Text: "Andy Tokyo"},
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(resultFixture())

	for _, want := range []string{
		"# Where did Andy travel in 2025?",
		"**Answer** (high confidence): Lisbon in March and Berlin in June.",
		`1. Query: "Andy travel 2025"`,
		"[ev-1] Andy flew to Lisbon on 2025-03-14.",
		`2. Query: "Andy Tokyo"`,
		"(nothing relevant found)",
		"Queries issued: 2",
		"Evidence accepted: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Unreviewed results") {
		t.Error("unreviewed section rendered with empty buffer")
	}
	if strings.Contains(out, "iteration budget") {
		t.Error("forced note rendered for a submitted answer")
	}
}

func TestMarkdownForcedWithUnreviewed(t *testing.T) {
	res := resultFixture()
	res.Forced = true
	res.UnreviewedBuffer = []evidence.Record{
		{ID: "ev_9", Text: "pending record never filtered"},
	}

	out := Markdown(res)
	if !strings.Contains(out, "iteration budget ran out") {
		t.Errorf("missing forced note:\n%s", out)
	}
	if !strings.Contains(out, "## Unreviewed results") {
		t.Errorf("missing unreviewed section:\n%s", out)
	}
	if !strings.Contains(out, "[ev-9] pending record never filtered") {
		t.Errorf("missing unreviewed record:\n%s", out)
	}
}

func TestMarkdownNil(t *testing.T) {
	if got := Markdown(nil); got != "" {
		t.Errorf("Markdown(nil) = %q", got)
	}
	if got := Markdown(&inquiry.Result{}); got != "" {
		t.Errorf("Markdown(no answer) = %q", got)
	}
}

func TestJSON(t *testing.T) {
	out, err := JSON(resultFixture())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["question"] != "Where did Andy travel in 2025?" {
		t.Errorf("question = %v", doc["question"])
	}
	if doc["confidence"] != "high" {
		t.Errorf("confidence = %v", doc["confidence"])
	}
	if doc["evidence_count"] != float64(2) {
		t.Errorf("evidence_count = %v", doc["evidence_count"])
	}
	if doc["forced"] != false {
		t.Errorf("forced = %v", doc["forced"])
	}

	if _, err := JSON(nil); err == nil {
		t.Error("expected error for nil result")
	}
}
