package daemon

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/version"
)

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// LastRun summarizes the most recent build.
type LastRun struct {
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	FinishedAt  time.Time `json:"finished_at"`
	Warnings    int       `json:"warnings"`
	AuditIssues int       `json:"audit_issues"`
	Error       string    `json:"error,omitempty"`
}

// HealthResponse represents the complete health check response.
type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Version   string       `json:"version"`
	Builds    int          `json:"builds"`
	LastRun   *LastRun     `json:"last_run,omitempty"`
}

// buildStatus tracks build outcomes for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	started      time.Time
	builds       int
	last         *LastRun
	hasGoodBuild bool
}

func newBuildStatus(now time.Time) *buildStatus {
	return &buildStatus{started: now}
}

func (bs *buildStatus) record(kind string, res *build.BuildResult, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	last := &LastRun{Kind: kind, FinishedAt: time.Now()}
	if res != nil {
		last.RunID = res.RunID
		last.Status = string(res.Status)
		last.FinishedAt = res.EndTime
		last.Warnings = res.WarningCount()
		last.AuditIssues = len(res.AuditIssues)
		if res.Status.IsSuccess() {
			bs.hasGoodBuild = true
		}
	}
	if err != nil {
		last.Error = err.Error()
		if last.Status == "" {
			last.Status = string(build.BuildStatusFailed)
		}
	}
	bs.last = last
}

// health derives the daemon status: unhealthy until a site exists, degraded
// while the latest build is failing.
func (bs *buildStatus) health(now time.Time) HealthResponse {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	resp := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: now,
		Uptime:    now.Sub(bs.started).Round(time.Second).String(),
		Version:   version.Version,
		Builds:    bs.builds,
	}
	if bs.last != nil {
		cp := *bs.last
		resp.LastRun = &cp
	}
	switch {
	case bs.last == nil:
		resp.Status = HealthStatusHealthy
	case !bs.hasGoodBuild:
		resp.Status = HealthStatusUnhealthy
	case bs.last.Error != "":
		resp.Status = HealthStatusDegraded
	}
	return resp
}

func (bs *buildStatus) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := bs.health(time.Now())
	code := http.StatusOK
	if resp.Status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
