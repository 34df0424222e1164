package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

// MemoryBackend keeps sessions in process memory. Expired entries are dropped
// lazily on access and by Sweep.
type MemoryBackend struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]memoryEntry
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend(clock clockwork.Clock) *MemoryBackend {
	return &MemoryBackend{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (b *MemoryBackend) Load(_ context.Context, id string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !b.clock.Now().Before(entry.expireAt) {
		delete(b.entries, id)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.data...), nil
}

func (b *MemoryBackend) Save(_ context.Context, id string, data []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[id] = memoryEntry{
		data:     append([]byte(nil), data...),
		expireAt: b.clock.Now().Add(ttl),
	}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, id)
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (b *MemoryBackend) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	removed := 0
	for id, entry := range b.entries {
		if !now.Before(entry.expireAt) {
			delete(b.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (b *MemoryBackend) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := b.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			b.Sweep()
		}
	}
}
