package store

import (
	"context"
	"fmt"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ErrVersionConflict is returned by ProgressRepo.Save when the stored
// version no longer matches the version the caller read.
type ErrVersionConflict struct {
	UserID   string
	Expected int64
}

func (e *ErrVersionConflict) Error() string {
	return fmt.Sprintf("progress of user %q changed concurrently (expected version %d)", e.UserID, e.Expected)
}

// AchievementData is the persisted form of an unlocked achievement.
type AchievementData struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// ProgressData is the persisted progression state of one user.
type ProgressData struct {
	UserID          string
	Version         int64
	CompletedNodes  []string
	InProgressNodes []string
	RecommendedPath []string
	TotalXP         int
	Level           int
	Achievements    []AchievementData
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProgressRepo loads and saves progress keyed by user id.
type ProgressRepo interface {
	// Load returns the progress of userID, or nil if none was saved.
	Load(ctx context.Context, userID string) (*ProgressData, error)

	// Save writes data if the stored version still equals data.Version
	// (zero for a first write) and returns the new version. A mismatch
	// yields *ErrVersionConflict and writes nothing.
	Save(ctx context.Context, data ProgressData) (int64, error)

	// SaveWithNodes is Save plus an upsert of catalog nodes for the same
	// user, in one transaction. On any error, including a version
	// conflict, neither is written.
	SaveWithNodes(ctx context.Context, data ProgressData, nodes []CatalogNodeData) (int64, error)

	// Delete removes the progress of userID.
	Delete(ctx context.Context, userID string) error
}

// CatalogNodeData is one node of a user's catalog extension. Data holds
// the JSON node document.
type CatalogNodeData struct {
	NodeID    string
	Source    string
	Data      []byte
	UpdatedAt time.Time
}

// CatalogRepo stores the nodes personalization added to a user's catalog.
type CatalogRepo interface {
	// Upsert inserts nodes or replaces those with the same node id, in
	// one transaction.
	Upsert(ctx context.Context, userID string, nodes []CatalogNodeData) error

	// List returns the user's nodes in first-insertion order.
	List(ctx context.Context, userID string) ([]CatalogNodeData, error)

	// Delete removes every node of userID.
	Delete(ctx context.Context, userID string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorKind    string // empty on success
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// CompletionEventData captures a completion that changed progress.
type CompletionEventData struct {
	UserID       string
	NodeID       string
	XPAwarded    int
	TotalXP      int
	Level        int
	Achievements []string
}

// CompletionEvent is a stored completion event.
type CompletionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	CompletionEventData
}

// MergeEventData captures a personalization merge.
type MergeEventData struct {
	UserID          string
	MergeID         string
	Title           string
	Added           []string
	Replaced        []string
	RecommendedPath []string
	Warnings        []string
}

// MergeEvent is a stored merge event.
type MergeEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	MergeEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil if no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	AppendCompletion(ctx context.Context, data CompletionEventData) error
	QueryCompletions(ctx context.Context, userID string, opts QueryOpts) ([]CompletionEvent, error)

	AppendMerge(ctx context.Context, data MergeEventData) error
	QueryMerges(ctx context.Context, userID string, opts QueryOpts) ([]MergeEvent, error)
}
