// Package cache keeps per-item booked intervals in Redis so availability and
// calendar reads skip the ledger while nothing has changed.
//
// Each item has a generation counter. Entries are stored under the generation
// that was current when the reader started, and Invalidate bumps the counter,
// so a fill racing with a booking write lands under a generation nobody reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rentshare-backend/internal/availability"
)

const keyPrefix = "rentshare:availability:"

type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache returns nil when rdb is nil; a nil cache misses on every read.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if rdb == nil {
		return nil
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func genKey(itemID string) string {
	return keyPrefix + "gen:" + itemID
}

func dataKey(itemID string, gen int64) string {
	return keyPrefix + itemID + ":" + strconv.FormatInt(gen, 10)
}

func (c *AvailabilityCache) generation(ctx context.Context, itemID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read generation for %s: %w", itemID, err)
	}
	return gen, nil
}

// Get reports ok=false on a miss. gen is the generation the caller must hand
// back to Set when filling the entry from the ledger.
func (c *AvailabilityCache) Get(ctx context.Context, itemID string) (intervals []availability.Interval, gen int64, ok bool, err error) {
	if c == nil {
		return nil, 0, false, nil
	}
	gen, err = c.generation(ctx, itemID)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.rdb.Get(ctx, dataKey(itemID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("read availability for %s: %w", itemID, err)
	}
	if err := json.Unmarshal(data, &intervals); err != nil {
		return nil, 0, false, fmt.Errorf("decode availability for %s: %w", itemID, err)
	}
	return intervals, gen, true, nil
}

// Set stores intervals under gen. After an Invalidate the entry is unreachable
// and simply expires.
func (c *AvailabilityCache) Set(ctx context.Context, itemID string, gen int64, intervals []availability.Interval) error {
	if c == nil {
		return nil
	}
	if intervals == nil {
		intervals = []availability.Interval{}
	}
	data, err := json.Marshal(intervals)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dataKey(itemID, gen), data, c.ttl).Err()
}

// Invalidate moves the item to a new generation and drops the entry of the old one.
func (c *AvailabilityCache) Invalidate(ctx context.Context, itemID string) error {
	if c == nil {
		return nil
	}
	gen, err := c.rdb.Incr(ctx, genKey(itemID)).Result()
	if err != nil {
		return fmt.Errorf("bump generation for %s: %w", itemID, err)
	}
	return c.rdb.Del(ctx, dataKey(itemID, gen-1)).Err()
}
