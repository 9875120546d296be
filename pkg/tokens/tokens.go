// Package tokens wraps tiktoken for prompt budgeting: counting tokens and
// truncating text to fit a token budget without splitting multi-byte runes.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// Counter counts and trims text against a tokenizer vocabulary.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter resolves the encoding for a model name, falling back to treating
// the name as an encoding name (e.g. "cl100k_base").
func NewCounter(name string) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Truncate returns text cut down to at most budget tokens. Text within the
// budget is returned unchanged.
func (c *Counter) Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	ids := c.enc.Encode(text, nil, nil)
	if len(ids) <= budget {
		return text
	}
	return c.enc.Decode(ids[:budget])
}
