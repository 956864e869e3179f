// Package notify publishes sync warnings, hero image log entries and run summaries
// to NATS JetStream so other services can react to data problems.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/hero"
	"git.home.luguber.info/inful/exhibitpal/internal/history"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// Subject suffixes appended to the configured base subject.
const (
	SuffixHero     = "hero"
	SuffixWarnings = "warnings"
	SuffixRuns     = "runs"
)

const publishTimeout = 5 * time.Second

// Notifier is the set of events a build emits.
type Notifier interface {
	hero.LogSink
	PublishWarnings(ctx context.Context, runID string, warnings []catalog.Warning) error
	PublishRun(ctx context.Context, run history.Run) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishHeroLog(context.Context, hero.LogEntry) error              { return nil }
func (Noop) PublishWarnings(context.Context, string, []catalog.Warning) error { return nil }
func (Noop) PublishRun(context.Context, history.Run) error                    { return nil }
func (Noop) Close() error                                                     { return nil }

// publisher is the subset of jetstream.JetStream used here.
type publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// WarningEvent carries the warnings of one run.
type WarningEvent struct {
	RunID     string            `json:"runId"`
	Count     int               `json:"count"`
	Warnings  []catalog.Warning `json:"warnings"`
	Timestamp time.Time         `json:"timestamp"`
}

// NATSClient publishes events to a JetStream stream.
type NATSClient struct {
	conn    *nats.Conn
	js      publisher
	subject string
	logger  *slog.Logger
	now     func() time.Time
}

// NewNATSClient connects to NATS and ensures the stream covering subject.> exists.
func NewNATSClient(ctx context.Context, cfg config.NotifyConfig, logger *slog.Logger) (*NATSClient, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("exhibitpal"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", cfg.URL).
			Retryable().
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to create JetStream context").Build()
	}

	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(sctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "exhibitpal sync and hero image events",
		Subjects:    []string{cfg.Subject + ".>"},
		MaxAge:      30 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to ensure JetStream stream").
			WithContext("stream", cfg.Stream).
			Build()
	}

	logger.Info("NATS notifications enabled",
		logfields.URL(cfg.URL),
		slog.String("stream", cfg.Stream),
		slog.String("subject", cfg.Subject))

	return &NATSClient{conn: conn, js: js, subject: cfg.Subject, logger: logger, now: time.Now}, nil
}

// New returns a NATS notifier when enabled, otherwise Noop.
func New(ctx context.Context, cfg config.NotifyConfig, logger *slog.Logger) (Notifier, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	return NewNATSClient(ctx, cfg, logger)
}

func (c *NATSClient) publish(ctx context.Context, suffix string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal event").Build()
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subject := c.subject + "." + suffix
	if _, err := c.js.Publish(pctx, subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish event").
			WithContext("subject", subject).
			Retryable().
			Build()
	}
	c.logger.Debug("Published event", slog.String("subject", subject))
	return nil
}

// PublishHeroLog implements hero.LogSink.
func (c *NATSClient) PublishHeroLog(ctx context.Context, entry hero.LogEntry) error {
	return c.publish(ctx, SuffixHero, entry)
}

// PublishWarnings publishes nothing when there are no warnings.
func (c *NATSClient) PublishWarnings(ctx context.Context, runID string, warnings []catalog.Warning) error {
	if len(warnings) == 0 {
		return nil
	}
	return c.publish(ctx, SuffixWarnings, WarningEvent{
		RunID:     runID,
		Count:     len(warnings),
		Warnings:  warnings,
		Timestamp: c.now().UTC(),
	})
}

func (c *NATSClient) PublishRun(ctx context.Context, run history.Run) error {
	return c.publish(ctx, SuffixRuns, run)
}

// Close closes the NATS connection.
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
