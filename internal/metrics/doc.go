// Package metrics records sync and build metrics for exhibitpal.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// require nil checks at call sites:
//
//	rec := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Enabled {
//	    rec = metrics.NewPrometheusRecorder(reg)
//	}
//
// The Prometheus implementation is served by HTTPHandler on the preview and
// daemon servers.
package metrics
