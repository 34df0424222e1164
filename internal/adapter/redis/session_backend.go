package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pscheid92/draftdesk/internal/adapter/sessionstore"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "draftdesk:session:"

// SessionBackend stores encoded session values under draftdesk:session:<id>
// with an expiry equal to the cookie lifetime.
type SessionBackend struct {
	rdb *goredis.Client
}

var _ sessionstore.Backend = (*SessionBackend)(nil)

func NewSessionBackend(rdb *goredis.Client) *SessionBackend {
	return &SessionBackend{rdb: rdb}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (b *SessionBackend) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, sessionstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	return data, nil
}

func (b *SessionBackend) Save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if err := b.rdb.Set(ctx, sessionKey(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (b *SessionBackend) Delete(ctx context.Context, id string) error {
	if err := b.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (b *SessionBackend) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}
