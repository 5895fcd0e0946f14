package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mediameter/internal/models"
)

// SnapshotCache keeps recent account snapshots in Redis so billing-sync
// polling does not hit Postgres on every request. Snapshots are
// advisory; any write path invalidates the cached entry and the next
// read repopulates it from the ledger.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a snapshot cache with the given TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot for a user, or ok=false on miss.
func (c *SnapshotCache) Get(ctx context.Context, userID string) (models.Snapshot, bool, error) {
	var snap models.Snapshot

	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		// Malformed entry, drop it and treat as a miss
		c.client.Del(ctx, c.key(userID))
		return snap, false, nil
	}

	return snap, true, nil
}

// Set stores a snapshot with the cache TTL.
func (c *SnapshotCache) Set(ctx context.Context, userID string, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// Invalidate removes the cached snapshot for a user.
func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *SnapshotCache) key(userID string) string {
	return fmt.Sprintf("snapshot:%s", userID)
}
