package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
)

type fakeService struct {
	mu    sync.Mutex
	runs  []build.BuildRequest
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakeService) Run(_ context.Context, req build.BuildRequest) (*build.BuildResult, error) {
	f.mu.Lock()
	f.runs = append(f.runs, req)
	f.mu.Unlock()
	f.calls.Add(1)
	if f.fail.Load() {
		return &build.BuildResult{RunID: "r", Status: build.BuildStatusFailed}, errors.New("boom")
	}
	if req.OutputDir != "" {
		_ = os.MkdirAll(req.OutputDir, 0o750)
		_ = os.WriteFile(filepath.Join(req.OutputDir, "index.html"), []byte("<p>site "+req.Config.Site.Title+"</p>"), 0o600)
	}
	return &build.BuildResult{RunID: "r", Status: build.BuildStatusSuccess, EndTime: time.Now()}, nil
}

func (f *fakeService) Sync(context.Context, build.BuildRequest) (*build.BuildResult, error) {
	return &build.BuildResult{}, nil
}

func (f *fakeService) lastRequest() build.BuildRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[len(f.runs)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, path, title, interval string) {
	t.Helper()
	content := "site:\n  title: " + title + "\ndaemon:\n  interval: " + interval + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestTriggerCoalescesRequests(t *testing.T) {
	var count atomic.Int32
	tr := NewTrigger(20*time.Millisecond, func(context.Context, string) { count.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tr.Run(ctx)

	for range 5 {
		tr.Request("burst")
	}
	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())

	tr.Now("again")
	assert.Eventually(t, func() bool { return count.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestHealthStates(t *testing.T) {
	bs := newBuildStatus(time.Now())
	assert.Equal(t, HealthStatusHealthy, bs.health(time.Now()).Status)

	bs.record(build.KindBuild, nil, errors.New("first failure"))
	assert.Equal(t, HealthStatusUnhealthy, bs.health(time.Now()).Status)

	bs.record(build.KindBuild, &build.BuildResult{RunID: "ok", Status: build.BuildStatusSuccess}, nil)
	assert.Equal(t, HealthStatusHealthy, bs.health(time.Now()).Status)

	bs.record(build.KindScheduled, &build.BuildResult{RunID: "bad", Status: build.BuildStatusFailed}, errors.New("later failure"))
	resp := bs.health(time.Now())
	assert.Equal(t, HealthStatusDegraded, resp.Status)
	require.NotNil(t, resp.LastRun)
	assert.Equal(t, "bad", resp.LastRun.RunID)
	assert.Equal(t, 3, resp.Builds)

	rec := httptest.NewRecorder()
	bs.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, HealthStatusDegraded, body.Status)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	_, err = New(Options{Config: &config.Config{}})
	require.Error(t, err)
}

func TestDaemonServesSiteAndReloadsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "exhibitpal.yaml")
	writeConfig(t, cfgPath, "First", "1h")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	svc := &fakeService{}
	reg := prom.NewRegistry()
	outDir := filepath.Join(dir, "out")
	var after atomic.Int32
	d, err := New(Options{
		ConfigPath:  cfgPath,
		Config:      cfg,
		Service:     svc,
		Logger:      quietLogger(),
		Addr:        "127.0.0.1:0",
		Registry:    reg,
		Schedule:    true,
		ServeSite:   true,
		OutputDir:   outDir,
		Kind:        build.KindPreview,
		QuietWindow: 20 * time.Millisecond,
		AfterBuild:  func(context.Context, *config.Config, *build.BuildResult) { after.Add(1) },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	<-d.Ready()
	require.Eventually(t, func() bool { return svc.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, outDir, svc.lastRequest().OutputDir)
	assert.Equal(t, build.KindPreview, svc.lastRequest().Kind)
	assert.Equal(t, int32(1), after.Load())

	base := "http://" + d.Addr()
	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(page), "site First")

	writeConfig(t, cfgPath, "Second", "2h")
	require.Eventually(t, func() bool { return d.Config().Site.Title == "Second" }, 3*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 2 && svc.lastRequest().Config.Site.Title == "Second"
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 2*time.Hour, d.Config().Daemon.Interval)
}

func TestDaemonKeepsConfigOnInvalidReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "exhibitpal.yaml")
	writeConfig(t, cfgPath, "Stable", "1h")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	d, err := New(Options{ConfigPath: cfgPath, Config: cfg, Service: &fakeService{}, Logger: quietLogger()})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("site: [unclosed"), 0o600))
	assert.False(t, d.reload(context.Background()))
	assert.Equal(t, "Stable", d.Config().Site.Title)
}

func TestDaemonScheduledRebuilds(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "exhibitpal.yaml")
	writeConfig(t, cfgPath, "Tick", "50ms")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	svc := &fakeService{}
	svc.fail.Store(true)
	d, err := New(Options{Config: cfg, Service: svc, Logger: quietLogger(), Addr: "127.0.0.1:0", Schedule: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, HealthStatusUnhealthy, d.Health().Status)

	cancel()
	require.NoError(t, <-done)
}
