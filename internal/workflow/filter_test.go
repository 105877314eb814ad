package workflow_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"slate/internal/workflow"
)

func filterFixture() []workflow.Item {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []workflow.Item{
		{
			ID: "ingest-1", Category: workflow.CategoryIngest, Status: workflow.StatusFailed,
			Priority: workflow.PriorityUrgent, Title: "Ingestion: scripture", Reason: "Ingestion failed and needs attention",
			AvailableActions: []workflow.Action{workflow.ActionRetry}, PrimaryAction: workflow.ActionRetry, UpdatedAt: ts,
		},
		{
			ID: "render-1", Category: workflow.CategoryRender, Status: workflow.StatusQueued,
			Priority: workflow.PriorityNormal, Title: "Render: Default", Subtitle: "Sunday Service", Reason: "Queued for rendering",
			AvailableActions: []workflow.Action{workflow.ActionReview}, PrimaryAction: workflow.ActionReview, UpdatedAt: ts,
		},
		{
			ID: "publish-1", Category: workflow.CategoryPublish, Status: workflow.StatusFailed,
			Priority: workflow.PriorityUrgent, Title: "Publish: youtube", Subtitle: "youtube", Reason: "Publish to youtube failed",
			AvailableActions: []workflow.Action{workflow.ActionRetry}, PrimaryAction: workflow.ActionRetry, UpdatedAt: ts,
		},
		{
			ID: "edit-1", Category: workflow.CategoryEdit, Status: workflow.StatusReviewing,
			Priority: workflow.PriorityHigh, Title: "Edit Decision List", Subtitle: "Sunday Service", Reason: "EDL ready for operator review",
			AvailableActions: []workflow.Action{workflow.ActionReview}, PrimaryAction: workflow.ActionReview, UpdatedAt: ts,
		},
	}
}

func ids(items []workflow.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestEmptyFilterIsIdentity(t *testing.T) {
	items := filterFixture()
	got := workflow.Filters{}.Apply(items)
	if !reflect.DeepEqual(ids(got), ids(items)) {
		t.Fatalf("expected identity, got %v", ids(got))
	}
}

func TestDimensionsAreORWithinAndANDAcross(t *testing.T) {
	items := filterFixture()

	got := workflow.Filters{
		Status: []workflow.Status{workflow.StatusFailed, workflow.StatusReviewing},
	}.Apply(items)
	if !reflect.DeepEqual(ids(got), []string{"ingest-1", "publish-1", "edit-1"}) {
		t.Fatalf("status OR: got %v", ids(got))
	}

	got = workflow.Filters{
		Status:   []workflow.Status{workflow.StatusFailed, workflow.StatusReviewing},
		Category: []workflow.Category{workflow.CategoryPublish},
	}.Apply(items)
	if !reflect.DeepEqual(ids(got), []string{"publish-1"}) {
		t.Fatalf("cross-dimension AND: got %v", ids(got))
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	items := filterFixture()

	got := workflow.Filters{Search: "SUNDAY"}.Apply(items)
	if !reflect.DeepEqual(ids(got), []string{"render-1", "edit-1"}) {
		t.Fatalf("subtitle search: got %v", ids(got))
	}

	got = workflow.Filters{Search: "needs attention"}.Apply(items)
	if !reflect.DeepEqual(ids(got), []string{"ingest-1"}) {
		t.Fatalf("reason search: got %v", ids(got))
	}

	got = workflow.Filters{Search: "no such thing"}.Apply(items)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestFilterCompositionEqualsCombinedFilter(t *testing.T) {
	items := filterFixture()

	f1 := workflow.Filters{Status: []workflow.Status{workflow.StatusFailed}}
	f2 := workflow.Filters{Priority: []workflow.Priority{workflow.PriorityUrgent}}
	combined := workflow.Filters{
		Status:   []workflow.Status{workflow.StatusFailed},
		Priority: []workflow.Priority{workflow.PriorityUrgent},
	}

	chained := f2.Apply(f1.Apply(items))
	direct := combined.Apply(items)
	if !reflect.DeepEqual(ids(chained), ids(direct)) {
		t.Fatalf("composition mismatch: chained=%v direct=%v", ids(chained), ids(direct))
	}
}

func TestSearchFilterIsSafeForConcurrentApply(t *testing.T) {
	items := filterFixture()
	filter := workflow.Filters{Search: "sunday"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				got := filter.Apply(items)
				if !reflect.DeepEqual(ids(got), []string{"render-1", "edit-1"}) {
					t.Errorf("concurrent search: got %v", ids(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFilterPreservesOrder(t *testing.T) {
	items := filterFixture()
	got := workflow.Filters{Priority: []workflow.Priority{workflow.PriorityUrgent}}.Apply(items)
	if !reflect.DeepEqual(ids(got), []string{"ingest-1", "publish-1"}) {
		t.Fatalf("expected source order preserved, got %v", ids(got))
	}
}
