// Package redis holds the Redis-backed login throttle and its connection
// helper. Redis is optional infrastructure here: the API runs without it,
// just without attempt limiting.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Options captures the settings for the throttle's Redis connection.
type Options struct {
	Addr        string
	DB          int
	DialTimeout time.Duration
}

// Connect opens a client for the login throttle and proves the server is
// reachable before the router starts taking logins, so a misconfigured
// address fails at boot instead of on the first failed attempt.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		DB:          opts.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", opts.Addr, err)
	}

	return client, nil
}
