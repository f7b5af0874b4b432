package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_LocksOutAfterMaxAttempts(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 3, WindowDuration: time.Minute, LockoutDuration: 10 * time.Minute})
	rl.now = func() time.Time { return now }

	assert.False(t, rl.RecordFailure("1.2.3.4", "app"))
	assert.False(t, rl.RecordFailure("1.2.3.4", "app"))
	assert.True(t, rl.RecordFailure("1.2.3.4", "app"))

	allowed, retryAfter := rl.Allow("1.2.3.4", "app")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Minute, retryAfter)

	allowed, _ = rl.Allow("5.6.7.8", "app")
	assert.True(t, allowed, "other callers are unaffected")

	now = now.Add(11 * time.Minute)
	allowed, _ = rl.Allow("1.2.3.4", "app")
	assert.True(t, allowed)
}

func TestRateLimiter_SuccessResets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 2})
	rl.RecordFailure("ip", "app")
	rl.RecordSuccess("ip", "app")

	assert.False(t, rl.RecordFailure("ip", "app"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 5, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	rl.now = func() time.Time { return now }

	rl.RecordFailure("ip", "app")
	assert.Equal(t, 0, rl.Cleanup())

	now = now.Add(3 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
}
