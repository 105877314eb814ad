package inbox_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"slate/internal/inbox"
	"slate/internal/services"
	"slate/internal/studio"
	"slate/internal/workflow"
)

type fakeMutator struct {
	calls []string
	fail  error
}

func (f *fakeMutator) record(call string) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeMutator) RetryIngestion(_ context.Context, id string) error {
	return f.record("retry-ingest:" + id)
}

func (f *fakeMutator) CancelIngestion(_ context.Context, id string) error {
	return f.record("cancel-ingest:" + id)
}

func (f *fakeMutator) ReviewIngestion(_ context.Context, id string, decision studio.ReviewDecision) error {
	return f.record("review-ingest:" + id + ":" + string(decision))
}

func (f *fakeMutator) RetryRenderJob(_ context.Context, id string) error {
	return f.record("retry-render:" + id)
}

func (f *fakeMutator) CancelRenderJob(_ context.Context, id string) error {
	return f.record("cancel-render:" + id)
}

func (f *fakeMutator) RetryPublishJob(_ context.Context, id string) error {
	return f.record("retry-publish:" + id)
}

func (f *fakeMutator) CancelPublishJob(_ context.Context, id string) error {
	return f.record("cancel-publish:" + id)
}

func (f *fakeMutator) ReviewEditDecisionList(_ context.Context, id string, decision studio.ReviewDecision) error {
	return f.record("review-edl:" + id + ":" + string(decision))
}

func failedIngestItem() workflow.Item {
	return workflow.Item{
		ID: "ingest-v1", Category: workflow.CategoryIngest, EntityID: "v1",
		Status: workflow.StatusFailed, Priority: workflow.PriorityUrgent,
		AvailableActions: []workflow.Action{workflow.ActionRetry, workflow.ActionCancel},
		PrimaryAction:    workflow.ActionRetry,
	}
}

func newDispatcher(mutator inbox.Mutator, sources ...inbox.Source) *inbox.Dispatcher {
	agg := inbox.NewAggregator(sources, time.Second, nil)
	return inbox.NewDispatcher(mutator, agg, "http://studio.local", nil)
}

func TestDispatchReviewNavigatesWithoutMutation(t *testing.T) {
	mutator := &fakeMutator{}
	d := newDispatcher(mutator)

	item := workflow.Item{
		ID: "render-r1", Category: workflow.CategoryRender, EntityID: "r1",
		AvailableActions: []workflow.Action{workflow.ActionReview},
		PrimaryAction:    workflow.ActionReview,
	}
	outcome, err := d.Dispatch(context.Background(), item, workflow.ActionReview)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if outcome.Navigation == nil || outcome.Navigation.Route != "http://studio.local/studio/renders/r1" {
		t.Fatalf("navigation: %+v", outcome.Navigation)
	}
	if len(mutator.calls) != 0 {
		t.Fatalf("review must not mutate: %v", mutator.calls)
	}
}

func TestDispatchRetryMutatesAndRefreshes(t *testing.T) {
	mutator := &fakeMutator{}
	refreshed := &stubSource{category: workflow.CategoryIngest, items: ingestItems(time.Now().UTC())}
	d := newDispatcher(mutator, refreshed)

	outcome, err := d.Dispatch(context.Background(), failedIngestItem(), workflow.ActionRetry)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(mutator.calls) != 1 || mutator.calls[0] != "retry-ingest:v1" {
		t.Fatalf("calls: %v", mutator.calls)
	}
	if outcome.Navigation != nil {
		t.Fatal("successful mutation must not navigate")
	}
	if len(outcome.Items) != 3 {
		t.Fatalf("expected refreshed items, got %d", len(outcome.Items))
	}
}

func TestDispatchFailedMutationFallsBackToNavigation(t *testing.T) {
	mutator := &fakeMutator{fail: errors.New("backend down")}
	d := newDispatcher(mutator)

	outcome, err := d.Dispatch(context.Background(), failedIngestItem(), workflow.ActionRetry)
	if err == nil {
		t.Fatal("expected the mutation error to surface")
	}
	if outcome.Navigation == nil || !strings.Contains(outcome.Navigation.Route, "version=v1") {
		t.Fatalf("fallback navigation: %+v", outcome.Navigation)
	}
}

func TestDispatchRejectsUnavailableAction(t *testing.T) {
	d := newDispatcher(&fakeMutator{})

	_, err := d.Dispatch(context.Background(), failedIngestItem(), workflow.ActionApprove)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDispatchRoutesPerCategory(t *testing.T) {
	mutator := &fakeMutator{}
	d := newDispatcher(mutator)

	cases := []struct {
		item   workflow.Item
		action workflow.Action
		want   string
	}{
		{
			item: workflow.Item{ID: "render-r1", Category: workflow.CategoryRender, EntityID: "r1",
				AvailableActions: []workflow.Action{workflow.ActionRetry}, PrimaryAction: workflow.ActionRetry},
			action: workflow.ActionRetry, want: "retry-render:r1",
		},
		{
			item: workflow.Item{ID: "publish-p1", Category: workflow.CategoryPublish, EntityID: "p1",
				AvailableActions: []workflow.Action{workflow.ActionCancel}, PrimaryAction: workflow.ActionCancel},
			action: workflow.ActionCancel, want: "cancel-publish:p1",
		},
		{
			item: workflow.Item{ID: "edit-e1", Category: workflow.CategoryEdit, EntityID: "e1",
				AvailableActions: []workflow.Action{workflow.ActionApprove}, PrimaryAction: workflow.ActionApprove},
			action: workflow.ActionApprove, want: "review-edl:e1:approved",
		},
		{
			item: workflow.Item{ID: "ingest-v2", Category: workflow.CategoryIngest, EntityID: "v2",
				AvailableActions: []workflow.Action{workflow.ActionReject}, PrimaryAction: workflow.ActionReject},
			action: workflow.ActionReject, want: "review-ingest:v2:rejected",
		},
	}
	for _, tc := range cases {
		if _, err := d.Dispatch(context.Background(), tc.item, tc.action); err != nil {
			t.Fatalf("%s on %s: %v", tc.action, tc.item.ID, err)
		}
	}
	for i, tc := range cases {
		if mutator.calls[i] != tc.want {
			t.Fatalf("call %d: got %s, want %s", i, mutator.calls[i], tc.want)
		}
	}
}

func TestDispatchRejectsUnsupportedCategoryAction(t *testing.T) {
	d := newDispatcher(&fakeMutator{})
	item := workflow.Item{
		ID: "edit-e1", Category: workflow.CategoryEdit, EntityID: "e1",
		AvailableActions: []workflow.Action{workflow.ActionRetry},
		PrimaryAction:    workflow.ActionRetry,
	}
	_, err := d.Dispatch(context.Background(), item, workflow.ActionRetry)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for edit retry, got %v", err)
	}
}
