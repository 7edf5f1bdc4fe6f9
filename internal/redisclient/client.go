// Package redisclient caches per-sheet row sets so repeated page loads don't
// hammer the Apps Script backend, which throttles aggressively.
package redisclient

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

// NewClient creates a Redis client and verifies connectivity.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func rowsKey(sheet string) string {
	return fmt.Sprintf("rows:%s", sheet)
}

// GetRows loads a cached row set into dest. The first return value reports
// whether the sheet was cached at all.
func (c *Client) GetRows(ctx context.Context, sheet string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, rowsKey(sheet)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt cached rows for sheet %q: %w", sheet, err)
	}
	return true, nil
}

// SetRows caches a row set with the given TTL.
func (c *Client) SetRows(ctx context.Context, sheet string, rows interface{}, ttl time.Duration) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rowsKey(sheet), data, ttl).Err()
}

// InvalidateRows drops a cached sheet, forcing the next read to the gateway.
func (c *Client) InvalidateRows(ctx context.Context, sheet string) error {
	return c.rdb.Del(ctx, rowsKey(sheet)).Err()
}
