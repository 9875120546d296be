// Package inquiry implements the evidence-gathering control loop: a bounded
// state machine that alternates between searching an evidence source,
// filtering the results, and deciding when enough evidence exists to answer.
//
// Each Session owns its ledger, pending buffer and iteration counter; nothing
// is shared process-wide. A Session is not safe for concurrent use — run
// independent questions on independent Sessions.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sweetpotato0/sleuth/evidence"
	"github.com/sweetpotato0/sleuth/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Result wraps the terminal Answer together with how the session ended.
type Result struct {
	Answer *evidence.Answer

	// Forced reports that the iteration budget ran out before the reasoner
	// submitted an answer.
	Forced bool

	// UnreviewedBuffer holds search results that were still pending when the
	// session terminated. They are exposed for inspection only and are never
	// part of the Answer: evidence counts only once explicitly accepted.
	UnreviewedBuffer []evidence.Record
}

// Session drives one question through the search/filter/answer loop.
type Session struct {
	cfg      *Config
	source   evidence.Source
	reasoner Reasoner
	logger   *slog.Logger
	tracer   trace.Tracer
	clock    func() time.Time

	ledger    ledger
	buffer    buffer
	iteration int
}

// New creates a session over the given evidence source and reasoning
// collaborator.
func New(source evidence.Source, r Reasoner, opts ...Option) (*Session, error) {
	if source == nil {
		return nil, fmt.Errorf("evidence source is required")
	}
	if r == nil {
		return nil, fmt.Errorf("reasoner is required")
	}

	settings := &sessionSettings{
		cfg:   defaultConfig(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(settings)
	}

	logger := settings.logger
	if logger == nil {
		logger = logging.WithComponent("inquiry").With("session", settings.cfg.Name)
	}

	tracer := noop.NewTracerProvider().Tracer("")
	if settings.cfg.EnableTracing {
		tracer = otel.Tracer("github.com/sweetpotato0/sleuth/inquiry")
	}

	return &Session{
		cfg:      settings.cfg,
		source:   source,
		reasoner: r,
		logger:   logger,
		tracer:   tracer,
		clock:    settings.clock,
	}, nil
}

// Run answers one question. It terminates within MaxIterations reasoner steps
// regardless of collaborator behavior: when the budget runs out the session
// synthesizes an answer from whatever ledger exists, assigning low confidence
// if nothing was ever accepted.
func (s *Session) Run(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}

	s.reset()
	ctx, span := s.tracer.Start(ctx, "inquiry.run",
		trace.WithAttributes(attribute.String("inquiry.session", s.cfg.Name)))
	defer span.End()

	s.logger.Info("inquiry started",
		"question", evidence.Snippet(question, 120),
		"max_iterations", s.cfg.MaxIterations,
	)

	for s.iteration < s.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.iteration++

		action, err := s.step(ctx, question)
		if err != nil {
			// Recoverable per-iteration failure: the step is consumed against
			// the budget and the loop moves on.
			s.logger.Warn("iteration failed",
				"iteration", s.iteration,
				"error", err,
			)
			continue
		}

		if submit, ok := action.(SubmitAnswer); ok {
			return s.finish(question, submit), nil
		}
	}

	return s.forceCompletion(question), nil
}

// step runs a single iteration: one reasoner call and the handling of the
// action it produced. Every error it returns is recoverable.
func (s *Session) step(ctx context.Context, question string) (Action, error) {
	ctx, span := s.tracer.Start(ctx, "inquiry.iteration",
		trace.WithAttributes(attribute.Int("inquiry.iteration", s.iteration)))
	defer span.End()

	action, err := s.reasoner.NextAction(ctx, s.snapshot(question))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	switch a := action.(type) {
	case IssueQuery:
		return action, s.handleIssueQuery(ctx, a)
	case AcceptEvidence:
		return action, s.handleAcceptEvidence(a)
	case SubmitAnswer:
		conf, err := evidence.ParseConfidence(string(a.Confidence))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		a.Confidence = conf
		return a, nil
	default:
		// Unreachable for the closed variant; kept as a guard against
		// reasoner implementations returning a nil or foreign Action.
		return nil, fmt.Errorf("%w: unexpected action %T", ErrInvalidAction, action)
	}
}

// handleIssueQuery searches the source and parks the raw results in the
// single-slot buffer. Any previously pending results are discarded: there is
// never more than one unfiltered result set.
func (s *Session) handleIssueQuery(ctx context.Context, a IssueQuery) error {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return fmt.Errorf("%w: empty query text", ErrInvalidAction)
	}

	if pending := s.buffer.snapshot(); pending != nil {
		s.logger.Debug("discarding stale pending results",
			"query", pending.Query,
			"records", len(pending.Records),
		)
	}

	records, err := s.source.Search(ctx, text)
	if err != nil {
		s.buffer.clear()
		return fmt.Errorf("%w: %v", ErrSourceFailure, err)
	}

	s.buffer.replace(text, records, s.clock())
	s.logger.Info("query issued",
		"iteration", s.iteration,
		"query", text,
		"results", len(records),
	)
	return nil
}

// handleAcceptEvidence turns a validated selection into a ledger Query and
// clears the buffer. An empty selection still appends a zero-evidence Query,
// the explicit "nothing here was relevant" marker.
func (s *Session) handleAcceptEvidence(a AcceptEvidence) error {
	selected, err := s.buffer.take(a.IDs)
	if err != nil {
		return err
	}

	accepted := make([]evidence.Evidence, len(selected))
	for i, rec := range selected {
		accepted[i] = evidence.Evidence{
			ID:          rec.ID,
			Text:        rec.Text,
			Metadata:    rec.Metadata,
			Query:       s.buffer.query,
			RetrievedAt: s.buffer.retrievedAt,
		}
	}

	s.ledger.append(evidence.Query{
		Text:     s.buffer.query,
		Evidence: accepted,
		IssuedAt: s.buffer.retrievedAt,
	})
	s.logger.Info("evidence accepted",
		"iteration", s.iteration,
		"query", s.buffer.query,
		"accepted", len(accepted),
		"offered", len(s.buffer.records),
	)
	s.buffer.clear()
	return nil
}

// finish builds the Result for a collaborator-submitted answer. Pending
// buffer contents are surfaced on the side channel, never merged in.
func (s *Session) finish(question string, a SubmitAnswer) *Result {
	res := &Result{
		Answer: &evidence.Answer{
			Question:   question,
			Text:       strings.TrimSpace(a.Text),
			Confidence: a.Confidence,
			Queries:    s.ledger.snapshot(),
		},
	}
	if pending := s.buffer.snapshot(); pending != nil {
		res.UnreviewedBuffer = pending.Records
		s.logger.Warn("answer submitted with unreviewed search results",
			"query", pending.Query,
			"records", len(pending.Records),
		)
	}
	s.logger.Info("inquiry answered",
		"iterations", s.iteration,
		"queries", res.Answer.QueryCount(),
		"evidence", res.Answer.TotalEvidence(),
		"confidence", res.Answer.Confidence,
	)
	return res
}

// forceCompletion terminates the session at the budget boundary, building an
// answer from whatever the ledger holds.
func (s *Session) forceCompletion(question string) *Result {
	count := s.ledger.totalEvidence()
	conf := confidenceForCount(count, s.cfg.MediumEvidenceCount, s.cfg.HighEvidenceCount)

	text := s.cfg.ForcedAnswerMessage
	if count > 0 {
		text = fmt.Sprintf(
			"The iteration budget was exhausted before a final answer was submitted. "+
				"%d pieces of evidence were collected across %d queries; see the provenance chain.",
			count, len(s.ledger.queries),
		)
	}

	res := &Result{
		Answer: &evidence.Answer{
			Question:   question,
			Text:       text,
			Confidence: conf,
			Queries:    s.ledger.snapshot(),
		},
		Forced: true,
	}
	if pending := s.buffer.snapshot(); pending != nil {
		res.UnreviewedBuffer = pending.Records
	}
	s.logger.Warn("iteration budget exhausted, forcing completion",
		"iterations", s.iteration,
		"evidence", count,
		"confidence", conf,
	)
	return res
}

func (s *Session) snapshot(question string) Snapshot {
	pending := s.buffer.snapshot()
	if pending != nil && s.cfg.SnippetLength > 0 {
		for i := range pending.Records {
			pending.Records[i].Text = evidence.Snippet(pending.Records[i].Text, s.cfg.SnippetLength)
		}
	}
	return Snapshot{
		Question:      question,
		Iteration:     s.iteration,
		MaxIterations: s.cfg.MaxIterations,
		Ledger:        s.ledger.snapshot(),
		Pending:       pending,
	}
}

func (s *Session) reset() {
	s.ledger = ledger{}
	s.buffer.clear()
	s.iteration = 0
}

// IsRecoverable reports whether err belongs to the session's recoverable
// error taxonomy (invalid action, invalid selection, source failure).
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrSourceFailure)
}
