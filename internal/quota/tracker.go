package quota

import (
	"maps"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/draftdesk/internal/domain"
)

// Unlimited disables counting for a feature.
const Unlimited = -1

const dateLayout = "2006-01-02"

// Policy maps features to their daily allowance. Features missing from Limits
// fall back to Default, which must be chosen explicitly by the caller.
type Policy struct {
	Limits  map[domain.Feature]int
	Default int
}

// Limit returns the daily allowance for f. Any negative value means unlimited,
// zero means the feature is disabled.
func (p Policy) Limit(f domain.Feature) int {
	if l, ok := p.Limits[f]; ok {
		return l
	}
	return p.Default
}

// Tracker decides admit/deny for feature requests against a session's QuotaState.
// It is safe for concurrent use; callers serialize access to a single state value.
type Tracker struct {
	policy Policy
	clock  clockwork.Clock
	loc    *time.Location
}

// NewTracker creates a tracker. A nil location evaluates days in UTC.
func NewTracker(policy Policy, clock clockwork.Clock, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		policy: Policy{Limits: maps.Clone(policy.Limits), Default: policy.Default},
		clock:  clock,
		loc:    loc,
	}
}

// Today returns the current calendar day in the tracker's time zone.
func (t *Tracker) Today() string {
	return t.clock.Now().In(t.loc).Format(dateLayout)
}

// Policy returns the tracker's limits.
func (t *Tracker) Policy() Policy {
	return Policy{Limits: maps.Clone(t.policy.Limits), Default: t.policy.Default}
}

// ResetIfNewDay zeroes all counters when the state was last reset on another day.
// Reports whether a reset happened. Idempotent within a day.
func (t *Tracker) ResetIfNewDay(state *domain.QuotaState) bool {
	if state.Counters == nil {
		state.Counters = make(map[domain.Feature]int)
	}

	today := t.Today()
	if state.LastResetDate == today {
		return false
	}

	state.LastResetDate = today
	clear(state.Counters)
	return true
}

// CheckAndConsume admits the request and takes one slot if the feature has
// allowance left today. A denied request leaves the counter unchanged.
// Unlimited features are admitted without maintaining a counter.
func (t *Tracker) CheckAndConsume(state *domain.QuotaState, f domain.Feature) bool {
	t.ResetIfNewDay(state)

	limit := t.policy.Limit(f)
	if limit < 0 {
		return true
	}
	if state.Counters[f] >= limit {
		return false
	}

	state.Counters[f]++
	return true
}

// Usage reports today's usage per offered feature without mutating state.
func (t *Tracker) Usage(state domain.QuotaState) []domain.FeatureUsage {
	current := domain.QuotaState{
		LastResetDate: state.LastResetDate,
		Counters:      maps.Clone(state.Counters),
	}
	t.ResetIfNewDay(&current)

	features := domain.Features()
	usage := make([]domain.FeatureUsage, 0, len(features))
	for _, f := range features {
		limit := t.policy.Limit(f)
		usage = append(usage, domain.FeatureUsage{
			Feature:   f,
			Used:      current.Counters[f],
			Limit:     max(limit, 0),
			Unlimited: limit < 0,
		})
	}
	return usage
}
