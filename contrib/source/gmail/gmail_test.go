package gmail

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	gmailapi "google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style></head>
	<body>
	  <script>alert("hi")</script>
	  <h1>Trip   confirmation</h1>
	  <p>Flight to <b>Lisbon</b> on March 14.</p>
	</body></html>`

	got := stripHTML(html)
	if strings.Contains(got, "alert") || strings.Contains(got, "color: red") {
		t.Errorf("script/style content leaked: %q", got)
	}
	if !strings.Contains(got, "Trip confirmation") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
	if !strings.Contains(got, "Flight to Lisbon on March 14.") {
		t.Errorf("body text missing: %q", got)
	}
}

func TestExtractBodyPrefersPlainText(t *testing.T) {
	part := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmailapi.MessagePartBody{Data: encode("<p>html version</p>")},
			},
			{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: encode("plain version\n")},
			},
		},
	}

	if got := extractBody(part); got != "plain version" {
		t.Errorf("extractBody = %q, want the text/plain part", got)
	}
}

func TestExtractBodyFallsBackToHTML(t *testing.T) {
	part := &gmailapi.MessagePart{
		MimeType: "text/html",
		Body:     &gmailapi.MessagePartBody{Data: encode("<p>only <b>html</b> here</p>")},
	}

	if got := extractBody(part); got != "only html here" {
		t.Errorf("extractBody = %q", got)
	}
}

func TestExtractBodyNested(t *testing.T) {
	part := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "text/plain",
						Body:     &gmailapi.MessagePartBody{Data: encode("deeply nested body")},
					},
				},
			},
		},
	}

	if got := extractBody(part); got != "deeply nested body" {
		t.Errorf("extractBody = %q", got)
	}
}

func TestTruncateBodyRuneSafe(t *testing.T) {
	multibyte := strings.Repeat("日", 10)
	got := truncateBody(multibyte, 4)
	if got != "日日日日" {
		t.Errorf("truncateBody = %q, want 4 whole runes", got)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated body is not valid UTF-8")
	}

	if got := truncateBody("short", 100); got != "short" {
		t.Errorf("text within limit changed: %q", got)
	}
	if got := truncateBody("anything", 0); got != "anything" {
		t.Errorf("limit 0 disables truncation, got %q", got)
	}
}

func TestExtractBodyEmpty(t *testing.T) {
	if got := extractBody(nil); got != "" {
		t.Errorf("extractBody(nil) = %q", got)
	}
	if got := extractBody(&gmailapi.MessagePart{MimeType: "image/png"}); got != "" {
		t.Errorf("extractBody(attachment) = %q", got)
	}
}
