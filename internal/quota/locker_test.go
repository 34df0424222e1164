package quota

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLocker_ConcurrentCheckAndConsumeNeverExceedsLimit(t *testing.T) {
	tracker := NewTracker(testPolicy(), clockwork.NewFakeClock(), nil)
	locker := NewLocker()
	values := domain.MapValues{}

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("session-a")
			defer unlock()

			state := Load(values)
			if tracker.CheckAndConsume(&state, domain.FeatureEmail) {
				admitted.Add(1)
			}
			Store(values, state)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), admitted.Load())
	assert.Equal(t, 3, Load(values).Counters[domain.FeatureEmail])
	assert.Zero(t, locker.held(), "idle keys must be released")
}

func TestLocker_DistinctKeysDoNotBlock(t *testing.T) {
	locker := NewLocker()

	unlockA := locker.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("b")
		unlockB()
		close(done)
	}()

	<-done
	unlockA()
	assert.Zero(t, locker.held())
}

func TestLocker_DoubleUnlockIsNoop(t *testing.T) {
	locker := NewLocker()

	unlock := locker.Lock("a")
	unlock()
	unlock()

	again := locker.Lock("a")
	again()
	assert.Zero(t, locker.held())
}
