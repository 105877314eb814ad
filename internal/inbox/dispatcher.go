package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"slate/internal/logging"
	"slate/internal/services"
	"slate/internal/studio"
	"slate/internal/workflow"
)

// Mutator covers the backend mutations an inbox action can trigger.
// *studio.Client satisfies it.
type Mutator interface {
	RetryIngestion(ctx context.Context, versionID string) error
	CancelIngestion(ctx context.Context, versionID string) error
	ReviewIngestion(ctx context.Context, versionID string, decision studio.ReviewDecision) error
	RetryRenderJob(ctx context.Context, jobID string) error
	CancelRenderJob(ctx context.Context, jobID string) error
	RetryPublishJob(ctx context.Context, jobID string) error
	CancelPublishJob(ctx context.Context, jobID string) error
	ReviewEditDecisionList(ctx context.Context, edlID string, decision studio.ReviewDecision) error
}

// Navigation points the operator at the detail surface for an item.
type Navigation struct {
	Route string
}

// Outcome is the result of dispatching an action: either a navigation
// target, or a refreshed item list after a successful mutation. A failed
// mutation carries both an error and a fallback navigation so the operator
// can inspect the entity directly.
type Outcome struct {
	Navigation *Navigation
	Items      []workflow.Item
}

// Dispatcher routes operator actions to the backend and refreshes the
// inbox after every successful mutation.
type Dispatcher struct {
	mutator    Mutator
	aggregator *Aggregator
	baseRoute  string
	logger     *slog.Logger
}

// NewDispatcher builds a dispatcher. baseRoute prefixes every navigation
// target, typically the studio UI origin.
func NewDispatcher(mutator Mutator, aggregator *Aggregator, baseRoute string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		mutator:    mutator,
		aggregator: aggregator,
		baseRoute:  strings.TrimRight(baseRoute, "/"),
		logger:     logger.With(logging.FieldComponent, "inbox"),
	}
}

// Dispatch executes one action against one item. The action must be in the
// item's available set. Navigation actions never touch the backend; mutate
// actions refresh the full inbox on success and fall back to navigation on
// failure.
func (d *Dispatcher) Dispatch(ctx context.Context, item workflow.Item, action workflow.Action) (Outcome, error) {
	if !item.Allows(action) {
		return Outcome{}, services.Wrap(services.ErrValidation, "inbox", "dispatch",
			fmt.Sprintf("action %q not available on item %s", action, item.ID), nil)
	}

	d.logger.InfoContext(ctx, "dispatching action",
		logging.FieldItemID, item.ID,
		logging.FieldAction, string(action),
		logging.FieldCategory, string(item.Category))

	switch action {
	case workflow.ActionReview, workflow.ActionEdit:
		return Outcome{Navigation: d.navigationFor(item)}, nil
	case workflow.ActionRetry, workflow.ActionCancel, workflow.ActionApprove, workflow.ActionReject:
		if err := d.mutate(ctx, item, action); err != nil {
			d.logger.WarnContext(ctx, "action failed, falling back to navigation",
				logging.FieldItemID, item.ID,
				logging.FieldAction, string(action),
				logging.Error(err))
			return Outcome{Navigation: d.navigationFor(item)}, err
		}
		return Outcome{Items: d.aggregator.Aggregate(ctx)}, nil
	default:
		return Outcome{}, services.Wrap(services.ErrValidation, "inbox", "dispatch",
			fmt.Sprintf("unknown action %q", action), nil)
	}
}

func (d *Dispatcher) mutate(ctx context.Context, item workflow.Item, action workflow.Action) error {
	switch item.Category {
	case workflow.CategoryIngest:
		switch action {
		case workflow.ActionRetry:
			return d.mutator.RetryIngestion(ctx, item.EntityID)
		case workflow.ActionCancel:
			return d.mutator.CancelIngestion(ctx, item.EntityID)
		case workflow.ActionApprove:
			return d.mutator.ReviewIngestion(ctx, item.EntityID, studio.DecisionApproved)
		case workflow.ActionReject:
			return d.mutator.ReviewIngestion(ctx, item.EntityID, studio.DecisionRejected)
		}
	case workflow.CategoryRender:
		switch action {
		case workflow.ActionRetry:
			return d.mutator.RetryRenderJob(ctx, item.EntityID)
		case workflow.ActionCancel:
			return d.mutator.CancelRenderJob(ctx, item.EntityID)
		}
	case workflow.CategoryPublish:
		switch action {
		case workflow.ActionRetry:
			return d.mutator.RetryPublishJob(ctx, item.EntityID)
		case workflow.ActionCancel:
			return d.mutator.CancelPublishJob(ctx, item.EntityID)
		}
	case workflow.CategoryEdit:
		switch action {
		case workflow.ActionApprove:
			return d.mutator.ReviewEditDecisionList(ctx, item.EntityID, studio.DecisionApproved)
		case workflow.ActionReject:
			return d.mutator.ReviewEditDecisionList(ctx, item.EntityID, studio.DecisionRejected)
		}
	}
	return services.Wrap(services.ErrValidation, "inbox", "dispatch",
		fmt.Sprintf("category %s does not support action %q", item.Category, action), nil)
}

func (d *Dispatcher) navigationFor(item workflow.Item) *Navigation {
	var route string
	switch item.Category {
	case workflow.CategoryIngest:
		route = "/studio/sessions/ingest?version=" + item.EntityID
	case workflow.CategoryRender:
		route = "/studio/renders/" + item.EntityID
	case workflow.CategoryPublish:
		route = "/studio/publish/" + item.EntityID
	case workflow.CategoryEdit:
		route = "/studio/edl/" + item.EntityID
	default:
		route = "/studio/queue"
	}
	return &Navigation{Route: d.baseRoute + route}
}
