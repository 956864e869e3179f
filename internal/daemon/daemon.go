package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// Rebuild reasons.
const (
	ReasonStartup   = "startup"
	ReasonScheduled = "scheduled"
	ReasonConfig    = "config"
	ReasonFixture   = "fixture"
)

// Options configures a Daemon.
type Options struct {
	ConfigPath string
	Config     *config.Config
	Service    build.BuildService
	Logger     *slog.Logger

	// Addr overrides daemon.listen.
	Addr string
	// Registry exposes metrics at metrics.path when set.
	Registry *prom.Registry

	// Schedule enables periodic rebuilds every daemon.interval.
	Schedule bool
	// ServeSite serves the output directory at /.
	ServeSite bool
	// OutputDir overrides output.directory for every build, surviving reloads.
	OutputDir string
	// Kind labels change-triggered runs in history.
	Kind string

	// AfterBuild runs after every successful build.
	AfterBuild func(ctx context.Context, cfg *config.Config, res *build.BuildResult)

	QuietWindow time.Duration
}

// Daemon rebuilds the site on a schedule and on file changes.
type Daemon struct {
	opts       Options
	configPath string
	logger     *slog.Logger
	status     *buildStatus
	trigger    *Trigger

	mu        sync.RWMutex
	cfg       *config.Config
	scheduler gocron.Scheduler
	jobID     uuid.UUID

	server *HTTPServer
	ready  chan struct{}
}

// New validates opts and prepares a Daemon; Run starts it.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, errors.ConfigError("daemon requires a configuration").Build()
	}
	if opts.Service == nil {
		return nil, errors.InternalError("daemon requires a build service").Build()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Kind == "" {
		opts.Kind = build.KindBuild
	}
	d := &Daemon{
		opts:   opts,
		logger: opts.Logger,
		status: newBuildStatus(time.Now()),
		cfg:    opts.Config,
		ready:  make(chan struct{}),
	}
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve config path").Build()
		}
		d.configPath = abs
	}
	d.trigger = NewTrigger(opts.QuietWindow, d.rebuild)
	return d, nil
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Health reports the current health snapshot.
func (d *Daemon) Health() HealthResponse {
	return d.status.health(time.Now())
}

// Ready is closed once the HTTP server is listening.
func (d *Daemon) Ready() <-chan struct{} { return d.ready }

// Addr is the bound HTTP address; valid after Ready.
func (d *Daemon) Addr() string {
	if d.server == nil {
		return ""
	}
	return d.server.Addr()
}

// Run blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.Config()

	addr := d.opts.Addr
	if addr == "" {
		addr = cfg.Daemon.Listen
	}
	serverOpts := ServerOptions{Addr: addr, Registry: d.opts.Registry, MetricsPath: cfg.Metrics.Path}
	if d.opts.ServeSite {
		serverOpts.SiteDir = d.outputDir(cfg)
	}
	server, err := StartHTTPServer(serverOpts, d.status, d.logger)
	if err != nil {
		return err
	}
	d.server = server
	close(d.ready)

	if d.opts.Schedule {
		if err := d.startScheduler(cfg.Daemon.Interval); err != nil {
			d.stopServer()
			return err
		}
	}

	var wg sync.WaitGroup
	if watched := d.watchedPaths(cfg); len(watched) > 0 {
		fw, err := NewFileWatcher(watched, func(path string) { d.onChange(ctx, path) }, d.logger)
		if err != nil {
			d.logger.WarnContext(ctx, "File watching disabled", logfields.Error(err))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fw.Run(ctx)
			}()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.trigger.Run(ctx)
	}()
	d.trigger.Now(ReasonStartup)

	d.logger.InfoContext(ctx, "Daemon started",
		slog.Bool("schedule", d.opts.Schedule),
		slog.String("interval", cfg.Daemon.Interval.String()))
	<-ctx.Done()

	d.logger.Info("Shutting down daemon")
	d.mu.Lock()
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil {
			d.logger.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	d.mu.Unlock()
	d.stopServer()
	wg.Wait()
	return nil
}

func (d *Daemon) stopServer() {
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Stop(stopCtx); err != nil {
		d.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}

func (d *Daemon) startScheduler(interval time.Duration) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(d.trigger.Now, ReasonScheduled),
		gocron.WithName("scheduled-build"),
	)
	if err != nil {
		_ = s.Shutdown()
		return errors.WrapError(err, errors.CategoryRuntime, "failed to schedule periodic build").Build()
	}
	d.mu.Lock()
	d.scheduler = s
	d.jobID = job.ID()
	d.mu.Unlock()
	s.Start()
	return nil
}

// reschedule applies a changed interval to the running job.
func (d *Daemon) reschedule(interval time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scheduler == nil {
		return
	}
	_, err := d.scheduler.Update(d.jobID,
		gocron.DurationJob(interval),
		gocron.NewTask(d.trigger.Now, ReasonScheduled),
		gocron.WithName("scheduled-build"),
	)
	if err != nil {
		d.logger.Error("Failed to update build schedule", logfields.Error(err))
		return
	}
	d.logger.Info("Build schedule updated", slog.String("interval", interval.String()))
}

func (d *Daemon) outputDir(cfg *config.Config) string {
	if d.opts.OutputDir != "" {
		return d.opts.OutputDir
	}
	return cfg.Output.Directory
}

// watchedPaths lists the config file and any sheet fixtures.
func (d *Daemon) watchedPaths(cfg *config.Config) []string {
	var paths []string
	if d.configPath != "" {
		paths = append(paths, d.configPath)
	}
	for _, p := range []string{cfg.Sheets.ExhibitionsFixture, cfg.Sheets.ArtworksFixture} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (d *Daemon) onChange(ctx context.Context, path string) {
	if path == d.configPath {
		if d.reload(ctx) {
			d.trigger.Request(ReasonConfig)
		}
		return
	}
	d.trigger.Request(ReasonFixture)
}

// reload swaps in the configuration file's new contents; an invalid file
// keeps the previous configuration.
func (d *Daemon) reload(ctx context.Context) bool {
	d.logger.InfoContext(ctx, "Reloading configuration", logfields.Path(d.configPath))
	next, err := config.Load(d.configPath)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to reload configuration; keeping previous", logfields.Error(err))
		return false
	}
	d.mu.Lock()
	prev := d.cfg
	d.cfg = next
	d.mu.Unlock()

	if next.Daemon.Listen != prev.Daemon.Listen {
		d.logger.WarnContext(ctx, "daemon.listen changes require a restart")
	}
	if next.Daemon.Interval != prev.Daemon.Interval {
		d.reschedule(next.Daemon.Interval)
	}
	d.logger.InfoContext(ctx, "Configuration reloaded")
	return true
}

func (d *Daemon) rebuild(ctx context.Context, reason string) {
	cfg := d.Config()
	kind := d.opts.Kind
	if reason == ReasonScheduled {
		kind = build.KindScheduled
	}
	d.logger.InfoContext(ctx, "Rebuilding site", slog.String("reason", reason))
	res, err := d.opts.Service.Run(ctx, build.BuildRequest{
		Config:    cfg,
		OutputDir: d.outputDir(cfg),
		Kind:      kind,
	})
	d.status.record(kind, res, err)
	if err != nil {
		d.logger.WarnContext(ctx, "Rebuild failed", slog.String("reason", reason), logfields.Error(err))
		return
	}
	if d.opts.AfterBuild != nil {
		d.opts.AfterBuild(ctx, cfg, res)
	}
}
