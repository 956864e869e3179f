package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// Run is the summary of one sync or build.
type Run struct {
	ID           string         `json:"id"`
	Kind         string         `json:"kind"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
	Status       string         `json:"status"`
	Exhibitions  int            `json:"exhibitions"`
	Artworks     int            `json:"artworks"`
	Pages        int            `json:"pages"`
	WarningCount int            `json:"warningCount"`
	AuditIssues  int            `json:"auditIssues"`
	Error        string         `json:"error,omitempty"`
	WarningTypes map[string]int `json:"warningTypes,omitempty"`
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store defines the interface for persisting and retrieving runs.
type Store interface {
	// Record stores a run and its warnings.
	Record(ctx context.Context, run Run, warnings []catalog.Warning) error

	// Recent returns the newest runs first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Warnings returns the warnings recorded for a run.
	Warnings(ctx context.Context, runID string) ([]catalog.Warning, error)

	// Close closes the store and releases resources.
	Close() error
}
