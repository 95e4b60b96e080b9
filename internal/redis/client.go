package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// ErrNotFound is returned when a cache key has no entry.
var ErrNotFound = fmt.Errorf("cache entry not found")

// ScopeKey names a tenant scope for cache keys and invalidation.
// nil means "all" for the privileged cross-agency caller.
func ScopeKey(agencyID, groupID *uint) string {
	agency, group := "all", "all"
	if agencyID != nil {
		agency = fmt.Sprintf("%d", *agencyID)
	}
	if groupID != nil {
		group = fmt.Sprintf("%d", *groupID)
	}
	return fmt.Sprintf("agency:%s:group:%s", agency, group)
}

// StatsKey is the full cache key for one memoized snapshot:
// metric + tenant scope + period. Distinct keys never interfere.
func StatsKey(metric, scopeKey, startDate, endDate string) string {
	return fmt.Sprintf("stats:%s:%s:%s_%s", metric, scopeKey, startDate, endDate)
}

// SetSnapshot memoizes a computed snapshot under its cache key.
func (c *Client) SetSnapshot(key string, snapshot interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

// GetSnapshot loads a memoized snapshot into dest. Returns ErrNotFound
// on a cache miss.
func (c *Client) GetSnapshot(key string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get snapshot: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// InvalidateDeliveryScopes drops every snapshot whose scope could
// include a delivery of the given agency/group: the agency's own
// entries and the cross-agency "all" entries. This is the declared
// dependency graph for delivery writes; callers never delete keys by
// hand.
func (c *Client) InvalidateDeliveryScopes(agencyID uint) error {
	patterns := []string{
		fmt.Sprintf("stats:*:agency:%d:*", agencyID),
		"stats:*:agency:all:*",
	}
	for _, pattern := range patterns {
		if err := c.deleteByPattern(pattern); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) deleteByPattern(pattern string) error {
	ctx := context.Background()
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// Request versioning: last-requested-wins. A caller takes a token
// before fetching; a slower request whose token was superseded must
// not overwrite the fresher entry.

// BeginRequest registers a new in-flight request for a scope and
// returns its token.
func (c *Client) BeginRequest(scopeKey string) (int64, error) {
	ctx := context.Background()
	return c.rdb.Incr(ctx, "statsreq:"+scopeKey).Result()
}

// CommitIfCurrent stores the snapshot only when token still identifies
// the latest request for the scope; stale results are discarded.
func (c *Client) CommitIfCurrent(scopeKey string, token int64, key string, snapshot interface{}, ttl time.Duration) (bool, error) {
	ctx := context.Background()
	current, err := c.rdb.Get(ctx, "statsreq:"+scopeKey).Int64()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to read request token: %w", err)
	}
	if current != token {
		return false, nil
	}
	if err := c.SetSnapshot(key, snapshot, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
