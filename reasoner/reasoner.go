// Package reasoner adapts a chat LLM into the inquiry loop's reasoning
// collaborator. It renders ledger and buffer snapshots into a prompt,
// declares the three loop operations as tools, and decodes the model's tool
// call back into a typed action. The adapter is stateless: every step is a
// pure function of the snapshot, which keeps the loop deterministic to test
// against scripted clients.
package reasoner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sweetpotato0/sleuth/evidence"
	"github.com/sweetpotato0/sleuth/inquiry"
	"github.com/sweetpotato0/sleuth/message"
	"github.com/sweetpotato0/sleuth/pkg/logging"
	"github.com/sweetpotato0/sleuth/pkg/tokens"
)

// Client is the LLM boundary implemented by contrib/reasoner providers.
// Tools are provider-agnostic schema maps (name, description, parameters).
type Client interface {
	Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error)
}

// LLM implements inquiry.Reasoner on top of a Client.
type LLM struct {
	client       Client
	systemPrompt string
	budget       int
	counter      *tokens.Counter
	logger       *slog.Logger
}

// Option customises the LLM reasoner.
type Option func(*LLM)

// WithSystemPrompt replaces the default investigator prompt.
func WithSystemPrompt(prompt string) Option {
	return func(l *LLM) {
		if prompt != "" {
			l.systemPrompt = prompt
		}
	}
}

// WithTokenBudget caps the rendered snapshot at the given token count using
// the named tiktoken model or encoding. Oversized snapshots are truncated
// from the tail, so the question and oldest provenance survive.
func WithTokenBudget(model string, budget int) Option {
	return func(l *LLM) {
		counter, err := tokens.NewCounter(model)
		if err != nil {
			l.logger.Warn("tokenizer unavailable, snapshot budgeting disabled", "model", model, "error", err)
			return
		}
		l.counter = counter
		l.budget = budget
	}
}

// New wraps a chat client as an inquiry.Reasoner.
func New(client Client, opts ...Option) (*LLM, error) {
	if client == nil {
		return nil, fmt.Errorf("reasoner client is required")
	}
	l := &LLM{
		client:       client,
		systemPrompt: defaultSystemPrompt,
		logger:       logging.WithComponent("reasoner"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// NextAction implements inquiry.Reasoner.
func (l *LLM) NextAction(ctx context.Context, snap inquiry.Snapshot) (inquiry.Action, error) {
	rendered := renderSnapshot(snap)
	if l.counter != nil && l.budget > 0 {
		rendered = l.counter.Truncate(rendered, l.budget)
	}

	msgs := []*message.Message{
		message.NewMessage(message.RoleSystem, l.systemPrompt),
		message.NewMessage(message.RoleUser, rendered),
	}

	resp, err := l.client.Generate(ctx, msgs, toolSchemas())
	if err != nil {
		return nil, fmt.Errorf("llm generation failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("llm returned no message")
	}
	if len(resp.ToolCalls) == 0 {
		return nil, fmt.Errorf("llm returned no tool call (content: %s)", evidence.Snippet(resp.Content, 120))
	}
	if len(resp.ToolCalls) > 1 {
		l.logger.Debug("multiple tool calls returned, using the first", "count", len(resp.ToolCalls))
	}

	return decodeAction(resp.ToolCalls[0])
}

// decodeAction maps a provider tool call onto the closed action variant.
func decodeAction(call message.ToolCall) (inquiry.Action, error) {
	switch call.Name {
	case toolIssueQuery:
		query, err := stringArg(call.Args, "query")
		if err != nil {
			return nil, err
		}
		return inquiry.IssueQuery{Text: query}, nil

	case toolAcceptEvidence:
		ids, err := stringSliceArg(call.Args, "ids")
		if err != nil {
			return nil, err
		}
		return inquiry.AcceptEvidence{IDs: ids}, nil

	case toolSubmitAnswer:
		answer, err := stringArg(call.Args, "answer")
		if err != nil {
			return nil, err
		}
		raw, err := stringArg(call.Args, "confidence")
		if err != nil {
			return nil, err
		}
		conf, err := evidence.ParseConfidence(raw)
		if err != nil {
			return nil, err
		}
		return inquiry.SubmitAnswer{Text: answer, Confidence: conf}, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("tool argument %q missing", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("tool argument %q is %T, want string", key, raw)
	}
	return s, nil
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("tool argument %q missing", key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tool argument %q contains %T, want string", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tool argument %q is %T, want string array", key, raw)
	}
}
