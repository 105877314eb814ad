package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category identifies the producing subsystem of a workflow item.
type Category string

const (
	CategoryIngest  Category = "ingest"
	CategoryEdit    Category = "edit"
	CategoryPublish Category = "publish"
	CategoryRender  Category = "render"
	CategoryLibrary Category = "library"
)

var allCategories = []Category{
	CategoryIngest,
	CategoryEdit,
	CategoryPublish,
	CategoryRender,
	CategoryLibrary,
}

// Priority ranks how urgently an item needs operator attention.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
	PriorityLow:    3,
}

// Rank returns the sort rank of a priority; lower sorts first. Unknown
// priorities rank after low so malformed data never jumps the queue.
func (p Priority) Rank() int {
	if rank, ok := priorityRank[p]; ok {
		return rank
	}
	return len(priorityRank)
}

// Status represents the lifecycle position of a workflow item. The enum spans
// every category's lifecycle; each category uses only a subset.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusReviewing  Status = "reviewing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusQueued     Status = "queued"
	StatusRendering  Status = "rendering"
	StatusEncoding   Status = "encoding"
	StatusUploading  Status = "uploading"
	StatusScheduled  Status = "scheduled"
	StatusPublished  Status = "published"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusArchived   Status = "archived"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusReviewing,
	StatusApproved,
	StatusRejected,
	StatusQueued,
	StatusRendering,
	StatusEncoding,
	StatusUploading,
	StatusScheduled,
	StatusPublished,
	StatusCompleted,
	StatusFailed,
	StatusCancelled,
	StatusArchived,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var inFlightStatuses = map[Status]struct{}{
	StatusProcessing: {},
	StatusRendering:  {},
	StatusEncoding:   {},
}

// Action is an operation an operator can take on a workflow item.
type Action string

const (
	ActionReview  Action = "review"
	ActionEdit    Action = "edit"
	ActionRetry   Action = "retry"
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var allActions = []Action{
	ActionReview,
	ActionEdit,
	ActionRetry,
	ActionCancel,
	ActionApprove,
	ActionReject,
}

// Item is the normalized, category-tagged unit of operator attention.
// Instances are ephemeral read projections rebuilt on every aggregation pass.
type Item struct {
	ID               string
	Category         Category
	EntityType       string
	EntityID         string
	Title            string
	Subtitle         string
	Status           Status
	Priority         Priority
	Reason           string
	AvailableActions []Action
	PrimaryAction    Action
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastActivityAt   *time.Time
}

// Validate enforces the item invariants, chiefly that the primary action is a
// member of the available action set.
func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("workflow item: missing id")
	}
	if !i.Allows(i.PrimaryAction) {
		return fmt.Errorf("workflow item %s: primary action %q not in available actions", i.ID, i.PrimaryAction)
	}
	return nil
}

// Allows reports whether the action is available on this item.
func (i Item) Allows(action Action) bool {
	for _, a := range i.AvailableActions {
		if a == action {
			return true
		}
	}
	return false
}

// IsInFlight reports whether the item's status reflects work in progress.
func (i Item) IsInFlight() bool {
	_, ok := inFlightStatuses[i.Status]
	return ok
}

// SortForAttention orders items in place by ascending priority rank (urgent
// first), then by most recent update. The sort is stable: equal items retain
// their relative source order.
func SortForAttention(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := items[a].Priority.Rank(), items[b].Priority.Rank()
		if ra != rb {
			return ra < rb
		}
		return items[a].UpdatedAt.After(items[b].UpdatedAt)
	})
}

// AllCategories returns the ordered list of known categories.
func AllCategories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ParsePriority converts a string into a known Priority.
func ParsePriority(value string) (Priority, bool) {
	normalized := Priority(strings.ToLower(strings.TrimSpace(value)))
	_, ok := priorityRank[normalized]
	return normalized, ok
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, category := range allCategories {
		if category == normalized {
			return normalized, true
		}
	}
	return "", false
}

// ParseAction converts a string into a known Action.
func ParseAction(value string) (Action, bool) {
	normalized := Action(strings.ToLower(strings.TrimSpace(value)))
	for _, action := range allActions {
		if action == normalized {
			return normalized, true
		}
	}
	return "", false
}
