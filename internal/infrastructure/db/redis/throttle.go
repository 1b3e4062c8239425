package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	throttleWindow = 15 * time.Minute
	maxFailures    = 5
)

// LoginThrottle caps failed login attempts per account using a TTL'd
// counter. Key format: login_fail:<email>
//
// Redis being unreachable fails open: a broken cache must not lock every
// account out, so errors are logged and the attempt is allowed.
type LoginThrottle struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, log zerolog.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, log: log}
}

// Allow reports whether another attempt for this email may proceed.
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if err != nil {
		if err != redis.Nil {
			t.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		}
		return true
	}
	return n < maxFailures
}

// RecordFailure notes a failed attempt; the counter expires after the
// throttle window so lockouts clear themselves.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	key := t.key(email)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		t.log.Warn().Err(err).Msg("login throttle record failed")
	}
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		t.log.Warn().Err(err).Msg("login throttle reset failed")
	}
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("login_fail:%s", email)
}
