package workflow_test

import (
	"testing"

	"slate/internal/workflow"
)

func TestCalculateStats(t *testing.T) {
	items := filterFixture()
	items = append(items, workflow.Item{
		ID: "render-2", Category: workflow.CategoryRender, Status: workflow.StatusRendering,
		Priority:         workflow.PriorityHigh,
		AvailableActions: []workflow.Action{workflow.ActionReview}, PrimaryAction: workflow.ActionReview,
	})

	stats := workflow.CalculateStats(items)

	if stats.Total != 5 {
		t.Fatalf("total: %d", stats.Total)
	}
	if stats.Urgent != 2 {
		t.Fatalf("urgent: %d", stats.Urgent)
	}
	if stats.Failed != 2 {
		t.Fatalf("failed: %d", stats.Failed)
	}
	if stats.NeedsReview != 1 {
		t.Fatalf("needs review: %d", stats.NeedsReview)
	}
	if stats.Processing != 1 {
		t.Fatalf("processing: %d", stats.Processing)
	}
	if stats.ByCategory[workflow.CategoryRender] != 2 {
		t.Fatalf("render count: %d", stats.ByCategory[workflow.CategoryRender])
	}
	if stats.ByCategory[workflow.CategoryLibrary] != 0 {
		t.Fatalf("library count should be present and zero: %d", stats.ByCategory[workflow.CategoryLibrary])
	}
	if stats.ByStatus[workflow.StatusQueued] != 1 {
		t.Fatalf("queued count: %d", stats.ByStatus[workflow.StatusQueued])
	}
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := workflow.CalculateStats(nil)
	if stats.Total != 0 || stats.Urgent != 0 {
		t.Fatalf("unexpected stats for empty input: %+v", stats)
	}
	if len(stats.ByCategory) == 0 || len(stats.ByStatus) == 0 {
		t.Fatal("expected zeroed maps for all known categories and statuses")
	}
}
