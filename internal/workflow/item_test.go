package workflow_test

import (
	"testing"
	"time"

	"slate/internal/workflow"
)

func itemAt(id string, priority workflow.Priority, updated time.Time) workflow.Item {
	return workflow.Item{
		ID:               id,
		Category:         workflow.CategoryIngest,
		Title:            id,
		Status:           workflow.StatusPending,
		Priority:         priority,
		AvailableActions: []workflow.Action{workflow.ActionReview},
		PrimaryAction:    workflow.ActionReview,
		UpdatedAt:        updated,
	}
}

func TestSortForAttentionOrdersByPriorityThenRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []workflow.Item{
		itemAt("low-old", workflow.PriorityLow, base.Add(-time.Hour)),
		itemAt("urgent-old", workflow.PriorityUrgent, base.Add(-2*time.Hour)),
		itemAt("high-new", workflow.PriorityHigh, base),
		itemAt("urgent-new", workflow.PriorityUrgent, base),
		itemAt("normal", workflow.PriorityNormal, base),
	}

	workflow.SortForAttention(items)

	want := []string{"urgent-new", "urgent-old", "high-new", "normal", "low-old"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestSortForAttentionIsStable(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []workflow.Item{
		itemAt("first", workflow.PriorityNormal, ts),
		itemAt("second", workflow.PriorityNormal, ts),
		itemAt("third", workflow.PriorityNormal, ts),
	}

	workflow.SortForAttention(items)

	for i, id := range []string{"first", "second", "third"} {
		if items[i].ID != id {
			t.Fatalf("expected stable order, position %d got %s", i, items[i].ID)
		}
	}
}

func TestUnknownPriorityRanksLast(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []workflow.Item{
		itemAt("mystery", workflow.Priority("critical??"), ts),
		itemAt("low", workflow.PriorityLow, ts),
	}

	workflow.SortForAttention(items)

	if items[0].ID != "low" || items[1].ID != "mystery" {
		t.Fatalf("expected unknown priority last, got %s, %s", items[0].ID, items[1].ID)
	}
}

func TestValidateRejectsForeignPrimaryAction(t *testing.T) {
	item := itemAt("x", workflow.PriorityLow, time.Now())
	item.PrimaryAction = workflow.ActionApprove
	if err := item.Validate(); err == nil {
		t.Fatal("expected validation error for primary action outside available set")
	}

	item.AvailableActions = append(item.AvailableActions, workflow.ActionApprove)
	if err := item.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestParseHelpers(t *testing.T) {
	if status, ok := workflow.ParseStatus(" Reviewing "); !ok || status != workflow.StatusReviewing {
		t.Fatalf("ParseStatus: %v %v", status, ok)
	}
	if _, ok := workflow.ParseStatus("exploded"); ok {
		t.Fatal("ParseStatus accepted unknown value")
	}
	if priority, ok := workflow.ParsePriority("URGENT"); !ok || priority != workflow.PriorityUrgent {
		t.Fatalf("ParsePriority: %v %v", priority, ok)
	}
	if category, ok := workflow.ParseCategory("render"); !ok || category != workflow.CategoryRender {
		t.Fatalf("ParseCategory: %v %v", category, ok)
	}
	if action, ok := workflow.ParseAction("Approve"); !ok || action != workflow.ActionApprove {
		t.Fatalf("ParseAction: %v %v", action, ok)
	}
}
