package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config holds configuration for the task queue.
type Config struct {
	Workers           int
	MaxRetries        int
	RetryDelay        time.Duration
	TaskTimeout       time.Duration
	ReleaseAfter      time.Duration // stuck tasks go back to the queue after this
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// retention keeps finished tasks for a day and payloads only of failures.
func retention() *backlite.Retention {
	return &backlite.Retention{
		Duration:   24 * time.Hour,
		OnlyFailed: false,
		Data:       &backlite.RetainData{OnlyFailed: true},
	}
}
