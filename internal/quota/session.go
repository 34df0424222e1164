package quota

import (
	"math"
	"strconv"

	"github.com/pscheid92/draftdesk/internal/domain"
)

// Session keys under which quota state is persisted.
const (
	KeyLastReset     = "quota_last_reset"
	keyCounterPrefix = "quota_used_"
)

// CounterKey returns the session key holding f's counter.
func CounterKey(f domain.Feature) string {
	return keyCounterPrefix + string(f)
}

// Load reads quota state from session values. Absent or malformed fields read as
// zero, so a brand-new session is a session with every counter at zero.
func Load(values domain.SessionValues) domain.QuotaState {
	state := domain.QuotaState{Counters: make(map[domain.Feature]int)}
	if values == nil {
		return state
	}

	if raw, ok := values.Get(KeyLastReset); ok {
		if s, ok := raw.(string); ok {
			state.LastResetDate = s
		}
	}

	for _, f := range domain.Features() {
		raw, ok := values.Get(CounterKey(f))
		if !ok {
			continue
		}
		if n := toCount(raw); n > 0 {
			state.Counters[f] = n
		}
	}
	return state
}

// Store writes quota state back into session values.
func Store(values domain.SessionValues, state domain.QuotaState) {
	values.Set(KeyLastReset, state.LastResetDate)
	for _, f := range domain.Features() {
		values.Set(CounterKey(f), state.Counters[f])
	}
}

func toCount(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
