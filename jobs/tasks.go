package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheRollover invalidates cached statements when the calendar day
	// changes. Projection eligibility depends on "today", so a statement
	// cached yesterday may mark the wrong columns as projected.
	TaskCacheRollover = "dfc:cache_rollover"
	// CacheRolloverCron fires at midnight UTC.
	CacheRolloverCron = "0 0 * * *"
)

// CacheBumper invalidates the statement cache by bumping its version.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// NewCacheRolloverTask constructs the rollover task.
func NewCacheRolloverTask() *asynq.Task {
	return asynq.NewTask(TaskCacheRollover, nil)
}

// NewCacheRolloverHandler returns the handler processing TaskCacheRollover.
func NewCacheRolloverHandler(cache CacheBumper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := cache.Bump(ctx); err != nil {
			if logger != nil {
				logger.Error("bump statement cache", slog.Any("error", err))
			}
			return err
		}
		if logger != nil {
			logger.Info("statement cache rolled over")
		}
		return nil
	}
}
