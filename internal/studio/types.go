package studio

import "time"

// IngestionVersion is one tracked upload moving through ingestion.
type IngestionVersion struct {
	VersionID   string     `json:"versionId"`
	SourceID    string     `json:"sourceId"`
	ContentType string     `json:"contentType"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RenderJob is one video render tracked by the backend.
type RenderJob struct {
	ID           string          `json:"documentId"`
	Status       string          `json:"status"`
	Preset       string          `json:"preset,omitempty"`
	Progress     int             `json:"progress"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Session      *SessionSummary `json:"recordingSession,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// PublishJob is one platform publish tracked by the publisher queue.
type PublishJob struct {
	ID             string `json:"id"`
	Platform       string `json:"platform"`
	MediaItemID    string `json:"mediaItemId,omitempty"`
	MediaItemTitle string `json:"mediaItemTitle,omitempty"`
	WorkflowState  string `json:"workflowState"`
	Priority       string `json:"priority"`
	RetryAllowed   bool   `json:"retryAllowed"`
	FailedReason   string `json:"failedReason,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	FinishedOn     int64  `json:"finishedOn,omitempty"`
}

// EditDecisionList is one cut list awaiting operator approval.
type EditDecisionList struct {
	ID        string          `json:"documentId"`
	Name      string          `json:"name,omitempty"`
	Status    string          `json:"status"`
	Session   *SessionSummary `json:"recordingSession,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SessionSummary is the embedded session reference carried by jobs.
type SessionSummary struct {
	ID    string `json:"documentId,omitempty"`
	Title string `json:"title,omitempty"`
}

// ReviewDecision is an operator verdict on a reviewable entity.
type ReviewDecision string

const (
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
)
