// Package metrics exposes compilation pipeline metrics through Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/docforge.net/internal/domain"
)

const namespace = "docforge"

// PrometheusRecorder satisfies the observer interfaces of the compile pipeline.
// A nil recorder is valid and records nothing.
type PrometheusRecorder struct {
	attempts         *prom.CounterVec
	outcomes         *prom.CounterVec
	compileDuration  prom.Histogram
	activeWorkspaces prom.Gauge
	toolResolutions  *prom.CounterVec
	generations      *prom.CounterVec
	sweptWorkspaces  prom.Counter
	prunedJobs       prom.Counter
}

// NewPrometheusRecorder constructs and registers the metrics on reg
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		attempts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_attempts_total",
			Help:      "Compiler invocations by mode and result",
		}, []string{"mode", "result"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_outcomes_total",
			Help:      "Finished compile jobs by error kind (ok on success)",
		}, []string{"kind"}),
		compileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Wall time of compile jobs",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		activeWorkspaces: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workspaces",
			Help:      "Workspaces currently held by running jobs",
		}),
		toolResolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tool_resolutions_total",
			Help:      "Toolchain discovery runs by result",
		}, []string{"result"}),
		generations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Prompt to document generations by result",
		}, []string{"result"}),
		sweptWorkspaces: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "workspaces_swept_total",
			Help:      "Orphaned workspaces removed by the janitor",
		}),
		prunedJobs: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "history_pruned_total",
			Help:      "Job history records removed by the janitor",
		}),
	}
	reg.MustRegister(
		pr.attempts,
		pr.outcomes,
		pr.compileDuration,
		pr.activeWorkspaces,
		pr.toolResolutions,
		pr.generations,
		pr.sweptWorkspaces,
		pr.prunedJobs,
	)
	return pr
}

// HTTPHandler serves the metrics of reg
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) IncAttempt(mode, result string) {
	if p == nil {
		return
	}
	p.attempts.WithLabelValues(mode, result).Inc()
}

func (p *PrometheusRecorder) ObserveOutcome(kind domain.ErrorKind, d time.Duration) {
	if p == nil {
		return
	}
	label := string(kind)
	if kind == domain.ErrorKindNone {
		label = "ok"
	}
	p.outcomes.WithLabelValues(label).Inc()
	p.compileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddActiveWorkspaces(delta float64) {
	if p == nil {
		return
	}
	p.activeWorkspaces.Add(delta)
}

func (p *PrometheusRecorder) IncToolResolution(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.toolResolutions.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncGeneration(result string) {
	if p == nil {
		return
	}
	p.generations.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) AddSweptWorkspaces(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.sweptWorkspaces.Add(float64(n))
}

func (p *PrometheusRecorder) AddPrunedJobs(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.prunedJobs.Add(float64(n))
}
