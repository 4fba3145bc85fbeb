package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cursorTTL bounds how long a cached cursor outlives its last update.
// Cursors are ephemeral UI state; a participant gone this long has no
// meaningful position anyway.
const cursorTTL = 5 * time.Minute

// CursorCache decorates a Store with a Redis hot path for cursors: every
// upsert is mirrored into a keyed cache with a TTL and published on a
// per-session channel, so dashboards and sibling server instances can
// follow presence without polling Postgres. All other Store calls pass
// straight through.
type CursorCache struct {
	Store
	rdb *redis.Client
}

// NewCursorCache connects to Redis and wraps the inner store.
func NewCursorCache(ctx context.Context, inner Store, addr string) (*CursorCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &CursorCache{Store: inner, rdb: rdb}, nil
}

func cursorCacheKey(rec CursorRecord) string {
	return fmt.Sprintf("coedit:cursor:%s:%s:%s", rec.SessionID, rec.ParticipantID, rec.FilePath)
}

func cursorChannel(sessionID string) string {
	return "coedit:cursors:" + sessionID
}

// UpsertCursor writes through to the inner store, then mirrors the cursor
// into the cache and announces it. Cache failures are reported to the
// caller (the background writer), which logs them; the durable write has
// already happened.
func (c *CursorCache) UpsertCursor(ctx context.Context, rec CursorRecord) error {
	if err := c.Store.UpsertCursor(ctx, rec); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cursor: %w", err)
	}
	if err := c.rdb.Set(ctx, cursorCacheKey(rec), payload, cursorTTL).Err(); err != nil {
		return fmt.Errorf("cache cursor: %w", err)
	}
	if err := c.rdb.Publish(ctx, cursorChannel(rec.SessionID), payload).Err(); err != nil {
		return fmt.Errorf("publish cursor: %w", err)
	}
	return nil
}

// SubscribeCursors follows the cursor feed for one session. The returned
// channel closes when ctx is cancelled.
func (c *CursorCache) SubscribeCursors(ctx context.Context, sessionID string) <-chan CursorRecord {
	out := make(chan CursorRecord)
	pubsub := c.rdb.Subscribe(ctx, cursorChannel(sessionID))

	go func() {
		defer close(out)
		defer pubsub.Close() //nolint:errcheck

		for {
			select {
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var rec CursorRecord
				if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
					continue
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close closes the Redis client and the inner store.
func (c *CursorCache) Close() error {
	if err := c.rdb.Close(); err != nil {
		c.Store.Close() //nolint:errcheck
		return fmt.Errorf("close redis: %w", err)
	}
	return c.Store.Close()
}

var _ Store = (*CursorCache)(nil)
