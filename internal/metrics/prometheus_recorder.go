package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "exhibitpal"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	warnings      *prom.CounterVec
	fetchRetries  *prom.CounterVec
	heroDuration  *prom.HistogramVec
	records       *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sync_warnings_total",
			Help:      "Normalization warnings by type",
		}, []string{"type"}),
		fetchRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_fetch_retries_total",
			Help:      "Retried sheet fetches",
		}, []string{"sheet"}),
		heroDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "hero_image_duration_seconds",
			Help:      "Hero image resolution duration by status",
			Buckets:   prom.DefBuckets,
		}, []string{"status"}),
		records: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records published by the last sync",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.warnings, pr.fetchRetries, pr.heroDuration, pr.records)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncSyncWarning(warningType string) {
	if p == nil {
		return
	}
	p.warnings.WithLabelValues(warningType).Inc()
}

func (p *PrometheusRecorder) IncFetchRetry(sheet string) {
	if p == nil {
		return
	}
	p.fetchRetries.WithLabelValues(sheet).Inc()
}

func (p *PrometheusRecorder) ObserveHeroImage(status string, d time.Duration) {
	if p == nil {
		return
	}
	p.heroDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetRecordCounts(exhibitions, artworks int) {
	if p == nil {
		return
	}
	p.records.WithLabelValues("exhibitions").Set(float64(exhibitions))
	p.records.WithLabelValues("artworks").Set(float64(artworks))
}
