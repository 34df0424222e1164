package domain

import "context"

// QuotaState is the per-session daily usage record.
// LastResetDate is a calendar day formatted as YYYY-MM-DD in the quota time zone.
type QuotaState struct {
	LastResetDate string
	Counters      map[Feature]int
}

// FeatureUsage is a read-only view of one feature's allowance for today.
type FeatureUsage struct {
	Feature   Feature
	Used      int
	Limit     int
	Unlimited bool
}

// Remaining returns the slots left today, or -1 for unlimited features.
func (u FeatureUsage) Remaining() int {
	if u.Unlimited {
		return -1
	}
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

// SessionAccess loads and persists the session values of the current request.
// Load must return the latest persisted values, not a cached copy, so the quota
// check-then-increment observes writes made by concurrent requests.
type SessionAccess interface {
	Key() string
	Load(ctx context.Context) (SessionValues, error)
	Save(ctx context.Context, values SessionValues) error
}
