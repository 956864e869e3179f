package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/history"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
	"git.home.luguber.info/inful/exhibitpal/internal/notify"
	"git.home.luguber.info/inful/exhibitpal/internal/observability"
	"git.home.luguber.info/inful/exhibitpal/internal/version"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	// Out receives command output; stdout when nil.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"exhibitpal.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	ShowVersion kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Fetch sheets, resolve hero images and render the site"`
	Sync    SyncCmd    `cmd:"" help:"Fetch and normalize sheets, writing the dataset JSON"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Preview PreviewCmd `cmd:"" help:"Build to a temporary directory, serve it and rebuild on changes"`
	Daemon  DaemonCmd  `cmd:"" help:"Rebuild periodically and serve /healthz and /metrics"`
	History HistoryCmd `cmd:"" help:"List recent runs with warning counts"`
	Publish PublishCmd `cmd:"" help:"Commit the generated site to a git repository"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply runs after flag parsing; it installs a bootstrap logger until
// the configuration is loaded.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel))
	slog.SetDefault(observability.NewLogger(os.Stderr, config.LoggingConfig{Level: level}, c.Verbose))
	return nil
}

// loadConfig reads the configuration and reconfigures logging from it.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = observability.NewLogger(os.Stderr, cfg.Logging, root.Verbose)
	slog.SetDefault(g.Logger)
	g.Logger.Debug("Configuration loaded", logfields.Path(root.Config), slog.String("config", cfg.String()))
	return cfg, nil
}

// runtime bundles the optional collaborators of a build service.
type runtime struct {
	service  *build.DefaultBuildService
	registry *prom.Registry
	store    history.Store
	notifier notify.Notifier
}

func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.notifier != nil {
		_ = r.notifier.Close()
	}
}

// newRuntime wires history, notifications and metrics according to cfg.
func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{}
	svc := build.NewBuildService().WithLogger(logger)

	if cfg.Metrics.Enabled {
		rt.registry = metrics.NewRegistry(version.Version)
		svc.WithRecorder(metrics.NewPrometheusRecorder(rt.registry))
	}

	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		rt.store = store
		svc.WithHistory(store)
	}

	n, err := notify.New(ctx, cfg.Notify, logger)
	if err != nil {
		logger.WarnContext(ctx, "Notifications disabled", logfields.Error(err))
		n = notify.Noop{}
	}
	rt.notifier = n
	svc.WithNotifier(n)

	rt.service = svc
	return rt, nil
}
