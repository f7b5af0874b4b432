package scheduler

import (
	"context"
	"log/slog"
)

// CachePruner drops expired entries from the catalog lookup cache.
type CachePruner interface {
	Prune() int
}

// TokenCleaner removes expired API tokens.
type TokenCleaner interface {
	CleanupExpired() (int64, error)
}

// AttemptCleaner forgets stale failed-login records.
type AttemptCleaner interface {
	Cleanup() int
}

func CachePruneJob(cache CachePruner, schedule string) Job {
	return Job{
		Name:     "catalog_cache_prune",
		Schedule: schedule,
		Run: func(context.Context) error {
			if removed := cache.Prune(); removed > 0 {
				slog.Info("catalog cache pruned", "removed", removed)
			}
			return nil
		},
	}
}

func TokenCleanupJob(tokens TokenCleaner, schedule string) Job {
	return Job{
		Name:     "api_token_cleanup",
		Schedule: schedule,
		Run: func(context.Context) error {
			removed, err := tokens.CleanupExpired()
			if err != nil {
				return err
			}
			if removed > 0 {
				slog.Info("expired api tokens removed", "removed", removed)
			}
			return nil
		},
	}
}

func AttemptCleanupJob(limiter AttemptCleaner, schedule string) Job {
	return Job{
		Name:     "auth_attempt_cleanup",
		Schedule: schedule,
		Run: func(context.Context) error {
			limiter.Cleanup()
			return nil
		},
	}
}
