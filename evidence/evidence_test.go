package evidence

import (
	"strings"
	"testing"
)

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in      string
		want    Confidence
		wantErr bool
	}{
		{"low", ConfidenceLow, false},
		{"medium", ConfidenceMedium, false},
		{"high", ConfidenceHigh, false},
		{" High ", ConfidenceHigh, false},
		{"MEDIUM", ConfidenceMedium, false},
		{"", "", true},
		{"certain", "", true},
		{"very high", "", true},
	}
	for _, tt := range tests {
		got, err := ParseConfidence(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseConfidence(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConfidence(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConfidence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnswerCounts(t *testing.T) {
	a := &Answer{
		Queries: []Query{
			{Text: "q1", Evidence: []Evidence{{ID: "a"}, {ID: "b"}}},
			{Text: "q2"},
			{Text: "q3", Evidence: []Evidence{{ID: "c"}}},
		},
	}
	if got := a.QueryCount(); got != 3 {
		t.Errorf("QueryCount = %d, want 3", got)
	}
	if got := a.TotalEvidence(); got != 3 {
		t.Errorf("TotalEvidence = %d, want 3", got)
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("short", 10); got != "short" {
		t.Errorf("Snippet(short) = %q", got)
	}
	if got := Snippet("  padded  ", 10); got != "padded" {
		t.Errorf("Snippet trims whitespace, got %q", got)
	}
	long := strings.Repeat("a", 20)
	if got := Snippet(long, 5); got != "aaaaa..." {
		t.Errorf("Snippet(long, 5) = %q", got)
	}
	if got := Snippet(long, 0); got != long {
		t.Errorf("limit 0 disables truncation, got %q", got)
	}
	// Rune-safe: multibyte text is cut at rune boundaries.
	if got := Snippet("日本語のテキスト", 3); got != "日本語..." {
		t.Errorf("Snippet(multibyte) = %q", got)
	}
}
