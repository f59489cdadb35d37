package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"golang.org/x/time/rate"
)

const (
	// defaultNumShards is the default number of shards for the rate limiter.
	defaultNumShards = 16
)

// visitor holds the token bucket of a single identifier.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterShard is a single shard of the rate limiter.
type rateLimiterShard struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

// ShardedRateLimiter keeps one token bucket per client, spread over shards
// to reduce lock contention. Each bucket refills rate tokens per window
// and holds at most rate tokens.
type ShardedRateLimiter struct {
	shards    []*rateLimiterShard
	numShards int
	rate      int
	window    time.Duration
	every     rate.Limit
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// RateLimiter is an alias for ShardedRateLimiter.
type RateLimiter = ShardedRateLimiter

// NewRateLimiter creates a new sharded rate limiter with the specified rate and window.
func NewRateLimiter(rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter creates a new sharded rate limiter with custom shard count.
func NewShardedRateLimiter(requests int, window time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{
			visitors: make(map[string]*visitor),
		}
	}

	rl := &ShardedRateLimiter{
		shards:    shards,
		numShards: numShards,
		rate:      requests,
		window:    window,
		every:     rate.Every(window / time.Duration(max(requests, 1))),
		stopCh:    make(chan struct{}),
	}

	go rl.cleanup()
	return rl
}

// getShard returns the shard for the given identifier using FNV hash.
func (rl *ShardedRateLimiter) getShard(identifier string) *rateLimiterShard {
	h := fnv.New32a()
	h.Write([]byte(identifier))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// checkRateLimit takes one token from the identifier's bucket. A denied
// request reports how long until its token would be available.
func (rl *ShardedRateLimiter) checkRateLimit(identifier string) (allowed bool, remaining int, retry time.Duration) {
	shard := rl.getShard(identifier)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now()
	v, exists := shard.visitors[identifier]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.rate)}
		shard.visitors[identifier] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 || !r.OK() {
		r.CancelAt(now)
		return false, 0, max(delay, time.Second)
	}
	remaining = int(math.Floor(v.limiter.TokensAt(now)))
	return true, max(remaining, 0), 0
}

func (rl *ShardedRateLimiter) limit(c *gin.Context, identifier string) {
	allowed, remaining, retry := rl.checkRateLimit(identifier)

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		abortWith(c, http.StatusTooManyRequests, i18n.ErrKeyRateLimitExceeded)
		return
	}

	c.Next()
}

// RateLimit returns a middleware that limits requests per IP.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.limit(c, "ip:"+c.ClientIP())
	}
}

// SubjectRateLimit returns a middleware that limits requests per authenticated caller.
// Falls back to IP-based limiting if the caller is anonymous.
func (rl *ShardedRateLimiter) SubjectRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.limit(c, rl.getIdentifier(c))
	}
}

// getIdentifier returns the caller subject if authenticated, otherwise the IP address.
func (rl *ShardedRateLimiter) getIdentifier(c *gin.Context) string {
	if subject := GetSubject(c); subject != "" {
		return "subject:" + subject
	}
	return "ip:" + c.ClientIP()
}

// cleanup periodically removes idle visitors from all shards.
func (rl *ShardedRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanupExpired drops visitors idle for two windows; their buckets are full again by then.
func (rl *ShardedRateLimiter) cleanupExpired() {
	now := time.Now()
	threshold := rl.window * 2

	for _, shard := range rl.shards {
		shard.mu.Lock()
		for id, v := range shard.visitors {
			if now.Sub(v.lastSeen) > threshold {
				delete(shard.visitors, id)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop shuts down the cleanup goroutine. It is safe to call more than once.
func (rl *ShardedRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// RateLimiterStats describes the tracked clients.
type RateLimiterStats struct {
	Limit    int    `json:"limit"`
	Window   string `json:"window"`
	Visitors int    `json:"visitors"`
	PerShard []int  `json:"-"`
}

// Stats returns the number of tracked clients, overall and per shard.
func (rl *ShardedRateLimiter) Stats() RateLimiterStats {
	stats := RateLimiterStats{
		Limit:    rl.rate,
		Window:   rl.window.String(),
		PerShard: make([]int, rl.numShards),
	}
	for i, shard := range rl.shards {
		shard.mu.Lock()
		stats.PerShard[i] = len(shard.visitors)
		stats.Visitors += stats.PerShard[i]
		shard.mu.Unlock()
	}
	return stats
}
