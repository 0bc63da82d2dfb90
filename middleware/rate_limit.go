package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/quillpost/quill/utils"
)

// windowCounter is the part of the Redis API the fixed window limiter uses.
type windowCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type localLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter counts requests per client IP. With Redis it uses a shared fixed window
// counter; without Redis, or when Redis fails, it falls back to an in-process token bucket.
type RateLimiter struct {
	redis  windowCounter
	limit  int
	window time.Duration

	mu    sync.Mutex
	local map[string]*localLimiter
}

// NewRateLimiter allows perMinute requests per client per minute. client may be nil.
// A non-positive perMinute disables limiting.
func NewRateLimiter(client *redis.Client, perMinute int) *RateLimiter {
	l := &RateLimiter{
		limit:  perMinute,
		window: time.Minute,
		local:  map[string]*localLimiter{},
	}
	if client != nil {
		l.redis = client
	}
	return l
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.Request.Context(), ctx.ClientIP()) {
			utils.Abort(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

// Allow reports whether one more request from key fits in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}
	if l.redis != nil {
		allowed, err := l.allowRedis(ctx, key)
		if err == nil {
			return allowed
		}
		utils.Sugar.Warnf("redis rate limit failed, using local limiter: %v", err)
	}
	return l.allowLocal(key)
}

func (l *RateLimiter) allowRedis(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("rate_limit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.redis.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, windowKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", windowKey, err)
		}
	}
	return count <= int64(l.limit), nil
}

func (l *RateLimiter) allowLocal(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, v := range l.local {
		if now.After(v.expires) {
			delete(l.local, k)
		}
	}

	entry, ok := l.local[key]
	if !ok {
		entry = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit),
		}
		l.local[key] = entry
	}
	entry.expires = now.Add(5 * l.window)
	return entry.limiter.Allow()
}
