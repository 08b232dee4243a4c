package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
)

// tokenBucket refills whole intervals lazily and spends one token per call.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = interval_ms - (now_ms - last_refill)
	if retry_after_ms < 0 then retry_after_ms = 0 end
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimit throttles booking writes per client IP and route. Without
// redis, or when disabled, it lets everything through. Redis failures
// fail open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *logging.Logger) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil || cfg.Capacity <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if log == nil {
		log = logging.Default()
	}

	ttl := int64(cfg.RefillInterval/time.Second) * int64(cfg.Capacity)
	if ttl < 60 {
		ttl = 60
	}

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, c)

		vals, err := tokenBucket.Run(c.Request.Context(), rdb, []string{key},
			time.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillTokens,
			cfg.RefillInterval.Milliseconds(),
			ttl,
		).Slice()
		if err != nil || len(vals) != 3 {
			log.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		remaining := asInt64(vals[1])
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if asInt64(vals[0]) != 1 {
			secs := int(math.Ceil(float64(asInt64(vals[2])) / 1000.0))
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Try again later.",
				"error_code":  "too_many_requests",
				"retry_after": secs,
			})
			return
		}

		c.Next()
	}
}

func rateKey(prefix string, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	user := "anon"
	if id, ok := UserID(c); ok {
		user = strconv.FormatUint(uint64(id), 10)
	}
	route := c.Request.Method + " " + c.FullPath()
	return strings.Join([]string{prefix, "ip", ip, "user", user, "route", route}, ":")
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}
