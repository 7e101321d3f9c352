package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kingoIII/Ruido/logger"

	"github.com/redis/go-redis/v9"
)

// PlayDebouncer suppresses duplicate play counts from the same
// viewer+track fingerprint within a window, backed by Redis SET NX EX.
type PlayDebouncer struct {
	client *redis.Client
	window time.Duration
}

// NewPlayDebouncer creates a debouncer over the given Redis client. A nil
// client is allowed and makes every play count (fail open).
func NewPlayDebouncer(client *redis.Client, window time.Duration) *PlayDebouncer {
	return &PlayDebouncer{client: client, window: window}
}

// debounceKey hashes the fingerprint so raw client addresses never land in
// Redis keys.
func debounceKey(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return "play:" + hex.EncodeToString(sum[:])
}

// ShouldCount reports whether a play for the fingerprint may be counted.
// The first call inside the window wins; repeats are suppressed. Redis
// being unavailable fails open: the play is counted and a warning logged.
func (d *PlayDebouncer) ShouldCount(ctx context.Context, fingerprint string) bool {
	if d.client == nil {
		return true
	}

	ok, err := d.client.SetNX(ctx, debounceKey(fingerprint), 1, d.window).Result()
	if err != nil {
		logger.Warn("Play debounce unavailable, counting play",
			logger.ErrorField(err),
		)
		return true
	}
	return ok
}
