package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/draftdesk/internal/adapter/metrics"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/normalize"
	"github.com/pscheid92/draftdesk/internal/prompt"
	"github.com/pscheid92/draftdesk/internal/quota"
)

// ErrorPrefix starts the text returned in place of a document when generation fails.
const ErrorPrefix = "AI Error: "

// DefaultGenerationTimeout bounds a single generator call when none is configured.
const DefaultGenerationTimeout = 30 * time.Second

// Service is the application layer. It is the only component that combines
// quota, prompt, generator and normalizer.
type Service struct {
	tracker   *quota.Tracker
	locker    *quota.Locker
	generator domain.Generator
	metrics   *metrics.ToolMetrics
	clock     clockwork.Clock
	timeout   time.Duration
}

// NewService creates the application service. toolMetrics may be nil.
func NewService(tracker *quota.Tracker, generator domain.Generator, toolMetrics *metrics.ToolMetrics, clock clockwork.Clock, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Service{
		tracker:   tracker,
		locker:    quota.NewLocker(),
		generator: generator,
		metrics:   toolMetrics,
		clock:     clock,
		timeout:   timeout,
	}
}

// Email runs the business-email tool. A missing field returns an error wrapping
// domain.ErrMissingField and consumes nothing.
func (s *Service) Email(ctx context.Context, access domain.SessionAccess, req domain.EmailRequest) (domain.ToolResult, error) {
	p, err := prompt.Email(req)
	if err != nil {
		return domain.ToolResult{Feature: domain.FeatureEmail}, err
	}
	return s.run(ctx, access, domain.FeatureEmail, p)
}

// Resume runs the resume tool with the same contract as Email.
func (s *Service) Resume(ctx context.Context, access domain.SessionAccess, req domain.ResumeRequest) (domain.ToolResult, error) {
	p, err := prompt.Resume(req)
	if err != nil {
		return domain.ToolResult{Feature: domain.FeatureResume}, err
	}
	return s.run(ctx, access, domain.FeatureResume, p)
}

// Usage returns today's per-feature usage of the session without consuming anything.
func (s *Service) Usage(ctx context.Context, access domain.SessionAccess) ([]domain.FeatureUsage, error) {
	values, err := access.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.tracker.Usage(quota.Load(values)), nil
}

// Limit returns the configured daily allowance of f.
func (s *Service) Limit(f domain.Feature) int {
	return s.tracker.Policy().Limit(f)
}

func (s *Service) run(ctx context.Context, access domain.SessionAccess, f domain.Feature, p string) (domain.ToolResult, error) {
	admitted, err := s.admit(ctx, access, f)
	if err != nil {
		return domain.ToolResult{Feature: f}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDecision(f, admitted)
	}
	if !admitted {
		slog.InfoContext(ctx, "Quota exhausted", "feature", f, "limit", s.Limit(f))
		return domain.ToolResult{Feature: f, LimitMessage: s.limitMessage(f)}, nil
	}

	raw, err := s.generate(ctx, f, p)
	if err != nil {
		// The consumed slot is not refunded.
		return domain.ToolResult{Feature: f, Text: ErrorPrefix + err.Error(), Admitted: true, Failed: true}, nil
	}

	return domain.ToolResult{
		Feature:  f,
		Text:     normalize.ForFeature(f).Normalize(raw),
		Admitted: true,
	}, nil
}

// admit performs the check-then-increment under the session's lock so that
// concurrent requests of one session cannot both take the last slot.
func (s *Service) admit(ctx context.Context, access domain.SessionAccess, f domain.Feature) (bool, error) {
	unlock := s.locker.Lock(access.Key())
	defer unlock()

	values, err := access.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}

	state := quota.Load(values)
	reset := s.tracker.ResetIfNewDay(&state)
	admitted := s.tracker.CheckAndConsume(&state, f)
	if !admitted && !reset {
		return false, nil
	}

	quota.Store(values, state)
	if err := access.Save(ctx, values); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	if reset {
		slog.DebugContext(ctx, "Daily quota reset", "date", state.LastResetDate)
	}
	return admitted, nil
}

func (s *Service) generate(ctx context.Context, f domain.Feature, p string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.clock.Now()
	raw, err := s.generator.Generate(ctx, p)
	elapsed := s.clock.Since(start)

	kind := ""
	if err != nil {
		kind = failureKind(err)
		slog.WarnContext(ctx, "Generation failed", "feature", f, "kind", kind, "error", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveGeneration(f, elapsed, kind)
	}
	return raw, err
}

func (s *Service) limitMessage(f domain.Feature) string {
	limit := s.Limit(f)
	if limit == 0 {
		return fmt.Sprintf("%s is not available.", f.Title())
	}
	unit := "requests"
	if limit == 1 {
		unit = "request"
	}
	return fmt.Sprintf("Daily limit reached: %d %s %s per day. Try again tomorrow.", limit, f.Title(), unit)
}

func failureKind(err error) string {
	var k interface{ FailureKind() string }
	if errors.As(err, &k) {
		return k.FailureKind()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unknown"
}
