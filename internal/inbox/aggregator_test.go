package inbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"slate/internal/inbox"
	"slate/internal/workflow"
)

type stubSource struct {
	category workflow.Category
	items    []workflow.Item
	err      error
	delay    time.Duration
}

func (s *stubSource) Category() workflow.Category { return s.category }

func (s *stubSource) Fetch(ctx context.Context) ([]workflow.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func ingestItems(ts time.Time) []workflow.Item {
	return []workflow.Item{
		{
			ID: "ingest-1", Category: workflow.CategoryIngest, Status: workflow.StatusPending,
			Priority:         workflow.PriorityNormal,
			AvailableActions: []workflow.Action{workflow.ActionReview}, PrimaryAction: workflow.ActionReview,
			UpdatedAt: ts,
		},
		{
			ID: "ingest-2", Category: workflow.CategoryIngest, Status: workflow.StatusFailed,
			Priority:         workflow.PriorityUrgent,
			AvailableActions: []workflow.Action{workflow.ActionRetry}, PrimaryAction: workflow.ActionRetry,
			UpdatedAt: ts.Add(time.Minute),
		},
		{
			ID: "ingest-3", Category: workflow.CategoryIngest, Status: workflow.StatusReviewing,
			Priority:         workflow.PriorityHigh,
			AvailableActions: []workflow.Action{workflow.ActionApprove}, PrimaryAction: workflow.ActionApprove,
			UpdatedAt: ts.Add(2 * time.Minute),
		},
	}
}

func TestAggregateToleratesFailedSources(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sources := []inbox.Source{
		&stubSource{category: workflow.CategoryIngest, items: ingestItems(ts)},
		&stubSource{category: workflow.CategoryRender, err: errors.New("render api down")},
		&stubSource{category: workflow.CategoryPublish},
	}

	agg := inbox.NewAggregator(sources, time.Second, nil)
	items := agg.Aggregate(context.Background())

	if len(items) != 3 {
		t.Fatalf("expected 3 items from the healthy sources, got %d", len(items))
	}
	want := []string{"ingest-2", "ingest-3", "ingest-1"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (all: %v)", i, items[i].ID, id, itemIDs(items))
		}
	}
}

func TestAggregateTimesOutSlowSources(t *testing.T) {
	ts := time.Now().UTC()
	sources := []inbox.Source{
		&stubSource{category: workflow.CategoryIngest, items: ingestItems(ts)},
		&stubSource{category: workflow.CategoryRender, delay: 5 * time.Second, items: ingestItems(ts)},
	}

	agg := inbox.NewAggregator(sources, 50*time.Millisecond, nil)
	start := time.Now()
	items := agg.Aggregate(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("aggregation blocked on slow source for %v", elapsed)
	}
	if len(items) != 3 {
		t.Fatalf("expected only the fast source's items, got %d", len(items))
	}
}

func TestAggregateEmptySources(t *testing.T) {
	agg := inbox.NewAggregator(nil, time.Second, nil)
	if items := agg.Aggregate(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty inbox, got %d items", len(items))
	}
}

func TestStatsReflectAggregation(t *testing.T) {
	ts := time.Now().UTC()
	agg := inbox.NewAggregator([]inbox.Source{
		&stubSource{category: workflow.CategoryIngest, items: ingestItems(ts)},
	}, time.Second, nil)

	stats := agg.Stats(context.Background())
	if stats.Total != 3 || stats.Urgent != 1 || stats.Failed != 1 || stats.NeedsReview != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func itemIDs(items []workflow.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
