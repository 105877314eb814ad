package studio

import (
	"context"
	"fmt"
	"net/http"
)

// ListIngestionVersions returns every tracked ingestion upload.
func (c *Client) ListIngestionVersions(ctx context.Context) ([]IngestionVersion, error) {
	var out struct {
		Versions []IngestionVersion `json:"versions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ingestion/versions", nil, &out); err != nil {
		return nil, err
	}
	return out.Versions, nil
}

// ReviewIngestion records an operator verdict on an ingested upload.
func (c *Client) ReviewIngestion(ctx context.Context, versionID string, decision ReviewDecision) error {
	body := map[string]string{"versionId": versionID, "decision": string(decision)}
	return c.do(ctx, http.MethodPost, "/api/ingestion/review", body, nil)
}

// RetryIngestion requeues a failed ingestion upload.
func (c *Client) RetryIngestion(ctx context.Context, versionID string) error {
	path := fmt.Sprintf("/api/ingestion/versions/%s/retry", versionID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// CancelIngestion abandons an ingestion upload.
func (c *Client) CancelIngestion(ctx context.Context, versionID string) error {
	path := fmt.Sprintf("/api/ingestion/versions/%s/cancel", versionID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// ListRenderJobs returns render jobs in the given statuses, newest first.
func (c *Client) ListRenderJobs(ctx context.Context, statuses ...string) ([]RenderJob, error) {
	path := "/api/render-jobs?sort=updatedAt:desc&pagination[limit]=50&populate=recordingSession"
	for _, status := range statuses {
		path += "&filters[status][$in]=" + status
	}
	var out struct {
		Data []RenderJob `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetRenderJob fetches one render job by id.
func (c *Client) GetRenderJob(ctx context.Context, jobID string) (RenderJob, error) {
	var out struct {
		Data RenderJob `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/render-jobs/"+jobID, nil, &out); err != nil {
		return RenderJob{}, err
	}
	return out.Data, nil
}

// RetryRenderJob requeues a failed render.
func (c *Client) RetryRenderJob(ctx context.Context, jobID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/render-jobs/%s/retry", jobID), nil, nil)
}

// CancelRenderJob abandons a render job.
func (c *Client) CancelRenderJob(ctx context.Context, jobID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/render-jobs/%s/cancel", jobID), nil, nil)
}

// ListPublishJobs returns publisher queue jobs in the given states.
func (c *Client) ListPublishJobs(ctx context.Context, states ...string) ([]PublishJob, error) {
	path := "/api/ruach-publisher/jobs"
	if len(states) > 0 {
		path += "?status="
		for i, state := range states {
			if i > 0 {
				path += ","
			}
			path += state
		}
	}
	var out struct {
		Jobs []PublishJob `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// RetryPublishJob requeues a failed platform publish.
func (c *Client) RetryPublishJob(ctx context.Context, jobID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/ruach-publisher/jobs/%s/retry", jobID), nil, nil)
}

// CancelPublishJob abandons a platform publish.
func (c *Client) CancelPublishJob(ctx context.Context, jobID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/ruach-publisher/jobs/%s/cancel", jobID), nil, nil)
}

// ListEditDecisionLists returns cut lists in the given statuses.
func (c *Client) ListEditDecisionLists(ctx context.Context, statuses ...string) ([]EditDecisionList, error) {
	path := "/api/edit-decision-lists?populate=recordingSession&sort=updatedAt:desc&pagination[limit]=50"
	for _, status := range statuses {
		path += "&filters[status][$in]=" + status
	}
	var out struct {
		Data []EditDecisionList `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ReviewEditDecisionList records an operator verdict on a cut list.
func (c *Client) ReviewEditDecisionList(ctx context.Context, edlID string, decision ReviewDecision) error {
	body := map[string]string{"decision": string(decision)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/edit-decision-lists/%s/review", edlID), body, nil)
}
