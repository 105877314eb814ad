package inbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"slate/internal/logging"
	"slate/internal/workflow"
)

const defaultSourceTimeout = 15 * time.Second

// Aggregator fans out to every registered source concurrently and merges
// the results into one attention-sorted list. A failing source degrades to
// an empty contribution; it never takes the rest of the inbox down.
type Aggregator struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewAggregator builds an aggregator over the given sources.
func NewAggregator(sources []Source, timeout time.Duration, logger *slog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{
		sources: sources,
		timeout: timeout,
		logger:  logger.With(logging.FieldComponent, "inbox"),
	}
}

// Aggregate fetches all sources in parallel and returns the merged list
// sorted urgent-first, newest-first within equal priority.
func (a *Aggregator) Aggregate(ctx context.Context) []workflow.Item {
	results := make([][]workflow.Item, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			items, err := source.Fetch(fetchCtx)
			if err != nil {
				a.logger.WarnContext(ctx, "source fetch failed",
					logging.FieldCategory, string(source.Category()),
					logging.Error(err))
				return
			}
			results[i] = items
		}(i, source)
	}
	wg.Wait()

	var merged []workflow.Item
	for _, items := range results {
		merged = append(merged, items...)
	}
	workflow.SortForAttention(merged)
	return merged
}

// Stats aggregates and summarizes in one pass.
func (a *Aggregator) Stats(ctx context.Context) workflow.Stats {
	return workflow.CalculateStats(a.Aggregate(ctx))
}
