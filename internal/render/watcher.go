// Package render tracks in-flight render jobs by polling the backend until
// they reach a terminal state.
package render

import (
	"context"
	"log/slog"
	"time"

	"slate/internal/logging"
	"slate/internal/studio"
	"slate/internal/workflow"
)

const defaultPollInterval = 2 * time.Second

// JobFetcher fetches one render job's current state. *studio.Client
// satisfies it.
type JobFetcher interface {
	GetRenderJob(ctx context.Context, jobID string) (studio.RenderJob, error)
}

// Update is one observed change in a watched job.
type Update struct {
	Job      studio.RenderJob
	Terminal bool
}

// Watcher polls a render job on a fixed interval and reports status and
// progress changes until the job completes, fails, or is cancelled.
type Watcher struct {
	fetcher  JobFetcher
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher builds a watcher polling at the given interval.
func NewWatcher(fetcher JobFetcher, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger.With(logging.FieldComponent, "render"),
	}
}

// Watch polls jobID until it reaches a terminal state or the context is
// canceled, invoking onUpdate for every status or progress change. Poll
// errors are transient by nature and logged, not fatal: the next tick
// tries again.
func (w *Watcher) Watch(ctx context.Context, jobID string, onUpdate func(Update)) (studio.RenderJob, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last studio.RenderJob
	seen := false
	for {
		job, err := w.fetcher.GetRenderJob(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			w.logger.WarnContext(ctx, "render poll failed", "job_id", jobID, logging.Error(err))
		} else {
			terminal := isTerminal(job.Status)
			if !seen || job.Status != last.Status || job.Progress != last.Progress {
				seen = true
				last = job
				if onUpdate != nil {
					onUpdate(Update{Job: job, Terminal: terminal})
				}
			}
			if terminal {
				return job, nil
			}
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

func isTerminal(status string) bool {
	parsed, ok := workflow.ParseStatus(status)
	if !ok {
		return false
	}
	switch parsed {
	case workflow.StatusCompleted, workflow.StatusFailed, workflow.StatusCancelled, workflow.StatusPublished:
		return true
	default:
		return false
	}
}
