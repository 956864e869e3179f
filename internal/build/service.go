package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/site"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes the complete pipeline: fetch -> normalize -> hero -> render -> audit.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)

	// Sync fetches and normalizes both sheets without rendering.
	Sync(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// OutputDir overrides output.directory when set.
	OutputDir string

	// Kind labels the run in history (build, sync, preview, scheduled).
	Kind string

	Options BuildOptions
}

// BuildOptions provides optional build behavior modifiers.
type BuildOptions struct {
	// Strict turns audit findings into a failed build.
	Strict bool

	// Concurrency bounds parallel hero image resolution (0 = DefaultConcurrency).
	Concurrency int
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	RunID  string
	Status BuildStatus

	// Dataset is the normalized data, with hero sources rewritten to local renditions.
	Dataset *catalog.Dataset

	// Render is nil for sync-only runs.
	Render *site.Result

	AuditIssues []site.Issue

	// Placeholders counts exhibitions that ended up with the placeholder hero image.
	Placeholders int

	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// WarningCount is the number of sheet warnings of the run.
func (r *BuildResult) WarningCount() int {
	if r == nil || r.Dataset == nil {
		return 0
	}
	return len(r.Dataset.Meta.Warnings)
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusWarning   BuildStatus = "warning"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarning ||
		s == BuildStatusFailed || s == BuildStatusCancelled
}

// IsSuccess returns true if the build produced a site.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarning
}

// Run kinds.
const (
	KindBuild     = "build"
	KindSync      = "sync"
	KindPreview   = "preview"
	KindScheduled = "scheduled"
)
