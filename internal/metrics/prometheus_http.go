package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry with Go runtime and process collectors and a
// constant exhibitpal_build_info gauge labelled with the binary version.
func NewRegistry(version string) *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prom.NewGaugeFunc(prom.GaugeOpts{
			Namespace:   namespace,
			Name:        "build_info",
			Help:        "Build information of the running binary.",
			ConstLabels: prom.Labels{"version": version},
		}, func() float64 { return 1 }),
	)
	return reg
}

// HTTPHandler serves reg in the Prometheus exposition format; nil falls back
// to the global registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg, EnableOpenMetrics: true})
}
