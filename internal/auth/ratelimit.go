package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puzpuzpuz/xsync/v3"
)

// RateLimiter locks out callers after repeated failed token requests.
// Failures are counted per IP+client id within a sliding window.
type RateLimiter struct {
	attempts        *xsync.MapOf[string, attemptRecord]
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
	}
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaults.LockoutDuration
	}

	return &RateLimiter{
		attempts:        xsync.NewMapOf[string, attemptRecord](),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		now:             time.Now,
	}
}

func makeKey(ip, clientID string) string {
	return ip + ":" + clientID
}

// Allow reports whether another attempt is permitted and, if not, how long
// the caller must wait.
func (rl *RateLimiter) Allow(ip, clientID string) (bool, time.Duration) {
	record, exists := rl.attempts.Load(makeKey(ip, clientID))
	if !exists {
		return true, 0
	}

	now := rl.now()
	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	if now.Sub(record.firstAttempt) > rl.windowDuration {
		return true, 0
	}
	return record.count < rl.maxAttempts, 0
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (rl *RateLimiter) RecordFailure(ip, clientID string) bool {
	now := rl.now()
	locked := false

	rl.attempts.Compute(makeKey(ip, clientID), func(record attemptRecord, loaded bool) (attemptRecord, bool) {
		if !loaded || now.Sub(record.firstAttempt) > rl.windowDuration {
			record = attemptRecord{firstAttempt: now}
		}
		record.count++
		if record.count >= rl.maxAttempts {
			record.lockedUntil = now.Add(rl.lockoutDuration)
			locked = true
		}
		return record, false
	})
	return locked
}

// RecordSuccess clears the failure record.
func (rl *RateLimiter) RecordSuccess(ip, clientID string) {
	rl.attempts.Delete(makeKey(ip, clientID))
}

// Cleanup removes records whose window and lockout have both passed.
func (rl *RateLimiter) Cleanup() int {
	now := rl.now()
	expiry := rl.windowDuration + rl.lockoutDuration
	removed := 0

	rl.attempts.Range(func(key string, record attemptRecord) bool {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)
		if windowExpired && lockoutExpired {
			rl.attempts.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func tooManyAttempts(c *gin.Context, retryAfter time.Duration) {
	c.Header("Retry-After", retryAfter.Round(time.Second).String())
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many failed attempts",
		"code":        "rate_limited",
		"retry_after": retryAfter.Round(time.Second).String(),
	})
}
