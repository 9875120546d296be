package inquiry

import (
	"log/slog"
	"time"
)

// Config controls a session's budget, display behavior and confidence policy.
// Grouped in one struct so callers can build reproducible sessions.
type Config struct {
	Name          string // Logical name for tracing/logging
	MaxIterations int    // Hard bound on reasoner steps per question
	SnippetLength int    // Display-only truncation for buffer snapshots

	// Count-based thresholds used when the loop has to assign a confidence
	// itself at forced completion. Zero accepted evidence is always low.
	MediumEvidenceCount int
	HighEvidenceCount   int

	// ForcedAnswerMessage is emitted when the budget runs out with an empty
	// ledger.
	ForcedAnswerMessage string

	EnableTracing bool
}

func defaultConfig() *Config {
	return &Config{
		Name:                "inquiry",
		MaxIterations:       5,
		SnippetLength:       500,
		MediumEvidenceCount: 1,
		HighEvidenceCount:   3,
		ForcedAnswerMessage: "No answer could be determined within the iteration budget.",
	}
}

// Option customises the session configuration.
type Option func(*sessionSettings)

type sessionSettings struct {
	cfg    *Config
	logger *slog.Logger
	clock  func() time.Time
}

// WithName sets the logical session name used in logs and trace spans.
func WithName(name string) Option {
	return func(s *sessionSettings) {
		if name != "" {
			s.cfg.Name = name
		}
	}
}

// WithMaxIterations bounds how many reasoner steps a question may consume
// before the loop forces completion.
func WithMaxIterations(n int) Option {
	return func(s *sessionSettings) {
		if n > 0 {
			s.cfg.MaxIterations = n
		}
	}
}

// WithSnippetLength caps how many runes of each pending record are shown to
// the reasoner. Display-only; accepted evidence keeps its full text.
func WithSnippetLength(n int) Option {
	return func(s *sessionSettings) {
		if n > 0 {
			s.cfg.SnippetLength = n
		}
	}
}

// WithConfidenceThresholds sets the accepted-evidence counts at which a
// forced completion reports medium and high confidence.
func WithConfidenceThresholds(medium, high int) Option {
	return func(s *sessionSettings) {
		if medium > 0 {
			s.cfg.MediumEvidenceCount = medium
		}
		if high >= medium && high > 0 {
			s.cfg.HighEvidenceCount = high
		}
	}
}

// WithForcedAnswerMessage overrides the text emitted when the budget runs out
// before any evidence was accepted.
func WithForcedAnswerMessage(msg string) Option {
	return func(s *sessionSettings) {
		if msg != "" {
			s.cfg.ForcedAnswerMessage = msg
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *sessionSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracing enables an OpenTelemetry span per run and per iteration.
func WithTracing(enabled bool) Option {
	return func(s *sessionSettings) {
		s.cfg.EnableTracing = enabled
	}
}

// WithClock overrides the time source; a test seam.
func WithClock(clock func() time.Time) Option {
	return func(s *sessionSettings) {
		if clock != nil {
			s.clock = clock
		}
	}
}
