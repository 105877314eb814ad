package inbox

import (
	"context"
	"fmt"
	"time"

	"slate/internal/studio"
	"slate/internal/workflow"
)

// Source produces normalized attention items for one workflow category.
type Source interface {
	Category() workflow.Category
	Fetch(ctx context.Context) ([]workflow.Item, error)
}

// StudioSources builds the standard source set backed by the studio API.
func StudioSources(client *studio.Client) []Source {
	return []Source{
		&ingestSource{client: client},
		&renderSource{client: client},
		&publishSource{client: client},
		&editSource{client: client},
	}
}

type ingestSource struct {
	client *studio.Client
}

func (s *ingestSource) Category() workflow.Category { return workflow.CategoryIngest }

func (s *ingestSource) Fetch(ctx context.Context) ([]workflow.Item, error) {
	versions, err := s.client.ListIngestionVersions(ctx)
	if err != nil {
		return nil, err
	}
	var items []workflow.Item
	for _, v := range versions {
		status, ok := workflow.ParseStatus(v.Status)
		if !ok {
			continue
		}
		switch status {
		case workflow.StatusReviewing, workflow.StatusFailed, workflow.StatusPending:
		default:
			continue
		}
		item := workflow.Item{
			ID:         "ingest-" + v.VersionID,
			Category:   workflow.CategoryIngest,
			EntityType: "upload",
			EntityID:   v.VersionID,
			Title:      "Ingestion: " + v.ContentType,
			Subtitle:   v.SourceID,
			Status:     status,
			CreatedAt:  v.CreatedAt,
			UpdatedAt:  v.CreatedAt,
		}
		if v.CompletedAt != nil {
			item.UpdatedAt = *v.CompletedAt
		}
		switch status {
		case workflow.StatusFailed:
			item.Priority = workflow.PriorityUrgent
			item.Reason = "Ingestion failed and needs attention"
			item.AvailableActions = []workflow.Action{workflow.ActionRetry, workflow.ActionCancel}
			item.PrimaryAction = workflow.ActionRetry
		case workflow.StatusReviewing:
			item.Priority = workflow.PriorityHigh
			item.Reason = "Ready for operator review"
			item.AvailableActions = []workflow.Action{workflow.ActionReview, workflow.ActionApprove, workflow.ActionReject}
			item.PrimaryAction = workflow.ActionApprove
		default:
			item.Priority = workflow.PriorityNormal
			item.Reason = "Ingestion pending"
			item.AvailableActions = []workflow.Action{workflow.ActionReview}
			item.PrimaryAction = workflow.ActionReview
		}
		items = append(items, item)
	}
	return items, nil
}

type renderSource struct {
	client *studio.Client
}

func (s *renderSource) Category() workflow.Category { return workflow.CategoryRender }

func (s *renderSource) Fetch(ctx context.Context) ([]workflow.Item, error) {
	jobs, err := s.client.ListRenderJobs(ctx, "failed", "queued", "rendering")
	if err != nil {
		return nil, err
	}
	var items []workflow.Item
	for _, job := range jobs {
		status, ok := workflow.ParseStatus(job.Status)
		if !ok {
			continue
		}
		preset := job.Preset
		if preset == "" {
			preset = "Default"
		}
		item := workflow.Item{
			ID:         "render-" + job.ID,
			Category:   workflow.CategoryRender,
			EntityType: "render-job",
			EntityID:   job.ID,
			Title:      "Render: " + preset,
			Status:     status,
			CreatedAt:  job.CreatedAt,
			UpdatedAt:  job.UpdatedAt,
		}
		if job.Session != nil {
			item.Subtitle = job.Session.Title
		}
		switch status {
		case workflow.StatusFailed:
			item.Priority = workflow.PriorityUrgent
			msg := job.ErrorMessage
			if msg == "" {
				msg = "Unknown error"
			}
			item.Reason = "Render failed: " + msg
			item.AvailableActions = []workflow.Action{workflow.ActionRetry, workflow.ActionCancel}
			item.PrimaryAction = workflow.ActionRetry
		case workflow.StatusRendering:
			item.Priority = workflow.PriorityHigh
			item.Reason = "Render in progress"
			item.AvailableActions = []workflow.Action{workflow.ActionReview}
			item.PrimaryAction = workflow.ActionReview
		default:
			item.Priority = workflow.PriorityNormal
			item.Reason = "Queued for rendering"
			item.AvailableActions = []workflow.Action{workflow.ActionReview}
			item.PrimaryAction = workflow.ActionReview
		}
		items = append(items, item)
	}
	return items, nil
}

type publishSource struct {
	client *studio.Client
}

func (s *publishSource) Category() workflow.Category { return workflow.CategoryPublish }

func (s *publishSource) Fetch(ctx context.Context) ([]workflow.Item, error) {
	jobs, err := s.client.ListPublishJobs(ctx, "failed", "active", "waiting", "delayed")
	if err != nil {
		return nil, err
	}
	var items []workflow.Item
	for _, job := range jobs {
		status := publishState(job.WorkflowState)
		title := job.MediaItemTitle
		if title == "" {
			title = "Publish: " + job.Platform
		}
		entityID := job.MediaItemID
		if entityID == "" {
			entityID = job.ID
		}
		priority, ok := workflow.ParsePriority(job.Priority)
		if !ok {
			priority = workflow.PriorityNormal
		}
		item := workflow.Item{
			ID:         "publish-" + job.ID,
			Category:   workflow.CategoryPublish,
			EntityType: "publish-job",
			EntityID:   entityID,
			Title:      title,
			Subtitle:   job.Platform,
			Status:     status,
			Priority:   priority,
			CreatedAt:  msToTime(job.Timestamp),
			UpdatedAt:  msToTime(job.Timestamp),
		}
		if job.FinishedOn > 0 {
			item.UpdatedAt = msToTime(job.FinishedOn)
		}
		switch status {
		case workflow.StatusFailed:
			reason := job.FailedReason
			if reason == "" {
				reason = "Unknown error"
			}
			item.Reason = fmt.Sprintf("Publish to %s failed: %s", job.Platform, reason)
		case workflow.StatusProcessing:
			item.Reason = fmt.Sprintf("Publishing to %s in progress", job.Platform)
		default:
			item.Reason = fmt.Sprintf("Queued for %s", job.Platform)
		}
		if job.RetryAllowed {
			item.AvailableActions = []workflow.Action{workflow.ActionRetry, workflow.ActionCancel}
			item.PrimaryAction = workflow.ActionRetry
		} else {
			item.AvailableActions = []workflow.Action{workflow.ActionReview}
			item.PrimaryAction = workflow.ActionReview
		}
		items = append(items, item)
	}
	return items, nil
}

// publishState maps publisher queue states onto the shared status enum.
func publishState(state string) workflow.Status {
	if status, ok := workflow.ParseStatus(state); ok {
		return status
	}
	switch state {
	case "active":
		return workflow.StatusProcessing
	case "waiting":
		return workflow.StatusQueued
	case "delayed":
		return workflow.StatusScheduled
	default:
		return workflow.StatusPending
	}
}

type editSource struct {
	client *studio.Client
}

func (s *editSource) Category() workflow.Category { return workflow.CategoryEdit }

func (s *editSource) Fetch(ctx context.Context) ([]workflow.Item, error) {
	edls, err := s.client.ListEditDecisionLists(ctx, "pending", "reviewing")
	if err != nil {
		return nil, err
	}
	var items []workflow.Item
	for _, edl := range edls {
		status, ok := workflow.ParseStatus(edl.Status)
		if !ok {
			continue
		}
		title := edl.Name
		if title == "" {
			title = "Edit Decision List"
		}
		item := workflow.Item{
			ID:         "edit-" + edl.ID,
			Category:   workflow.CategoryEdit,
			EntityType: "media-item",
			EntityID:   edl.ID,
			Title:      title,
			Status:     status,
			CreatedAt:  edl.CreatedAt,
			UpdatedAt:  edl.UpdatedAt,
		}
		if edl.Session != nil {
			item.Subtitle = edl.Session.Title
		}
		if status == workflow.StatusReviewing {
			item.Priority = workflow.PriorityHigh
			item.Reason = "EDL ready for operator review"
			item.AvailableActions = []workflow.Action{workflow.ActionReview, workflow.ActionApprove, workflow.ActionReject}
			item.PrimaryAction = workflow.ActionApprove
		} else {
			item.Priority = workflow.PriorityNormal
			item.Reason = "EDL pending approval"
			item.AvailableActions = []workflow.Action{workflow.ActionReview}
			item.PrimaryAction = workflow.ActionReview
		}
		items = append(items, item)
	}
	return items, nil
}

func msToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Now().UTC()
	}
	return time.UnixMilli(ms).UTC()
}
