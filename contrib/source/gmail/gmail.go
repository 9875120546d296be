// Package gmail provides an evidence source over a Gmail mailbox. Queries are
// passed through to Gmail's search syntax, so "from:alice after:2025/01/01"
// works as expected. Message bodies are decoded and HTML is stripped to plain
// text before being returned as evidence.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sweetpotato0/sleuth/evidence"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Config holds Gmail source configuration.
type Config struct {
	// User is the mailbox to search. "me" means the authenticated user.
	User string
	// TopK bounds how many messages a search returns (default: 3).
	TopK int
	// MaxBodyLength truncates message bodies after cleaning (default: 4000).
	MaxBodyLength int
	// Options are passed to the Gmail API client, e.g.
	// option.WithTokenSource or option.WithCredentialsFile.
	Options []option.ClientOption
}

// DefaultConfig returns default Gmail source configuration using application
// default credentials.
func DefaultConfig() *Config {
	return &Config{
		User:          "me",
		TopK:          3,
		MaxBodyLength: 4000,
	}
}

// Source implements evidence.Source by searching a Gmail mailbox.
type Source struct {
	service       *gmail.Service
	user          string
	topK          int
	maxBodyLength int
}

// New creates a Gmail-backed evidence source.
func New(ctx context.Context, config *Config) (*Source, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.User == "" {
		config.User = "me"
	}
	topK := config.TopK
	if topK <= 0 {
		topK = 3
	}
	maxBody := config.MaxBodyLength
	if maxBody <= 0 {
		maxBody = 4000
	}

	service, err := gmail.NewService(ctx, config.Options...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &Source{
		service:       service,
		user:          config.User,
		topK:          topK,
		maxBodyLength: maxBody,
	}, nil
}

// Search implements evidence.Source. The query uses Gmail search syntax.
func (s *Source) Search(ctx context.Context, query string) ([]evidence.Record, error) {
	listCall := s.service.Users.Messages.List(s.user).
		Q(query).
		MaxResults(int64(s.topK)).
		Context(ctx)

	listResp, err := listCall.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail search failed: %w", err)
	}

	records := make([]evidence.Record, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		msg, err := s.service.Users.Messages.Get(s.user, ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", ref.Id, err)
		}

		text := extractBody(msg.Payload)
		if text == "" {
			text = msg.Snippet
		}
		text = truncateBody(text, s.maxBodyLength)

		metadata := map[string]string{"source": "gmail"}
		for _, header := range headersOf(msg) {
			switch header.Name {
			case "From", "To", "Subject", "Date":
				metadata[strings.ToLower(header.Name)] = header.Value
			}
		}

		records = append(records, evidence.Record{
			ID:       "gmail_" + ref.Id,
			Text:     text,
			Metadata: metadata,
		})
	}
	return records, nil
}

func headersOf(msg *gmail.Message) []*gmail.MessagePartHeader {
	if msg.Payload == nil {
		return nil
	}
	return msg.Payload.Headers
}

// extractBody walks the MIME tree preferring text/plain parts, falling back
// to stripped text/html.
func extractBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if plain := findPart(part, "text/plain"); plain != "" {
		return strings.TrimSpace(plain)
	}
	if html := findPart(part, "text/html"); html != "" {
		return stripHTML(html)
	}
	return ""
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for _, child := range part.Parts {
		if text := findPart(child, mimeType); text != "" {
			return text
		}
	}
	return ""
}

// truncateBody cuts text to at most limit runes, never splitting a multi-byte
// character.
func truncateBody(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// stripHTML reduces an HTML body to readable plain text. Script and style
// elements are removed and whitespace collapsed.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style").Remove()

	text := doc.Text()
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
