package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	registry          *prom.Registry
	stageDuration     *prom.HistogramVec
	buildDuration     prom.Histogram
	stageResults      *prom.CounterVec
	buildOutcome      *prom.CounterVec
	documentsRendered prom.Counter
	documentsFailed   prom.Counter
	documentsSkipped  prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.documentsRendered = prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "documents_rendered_total",
			Help:      "Documents rendered successfully",
		})
		pr.documentsFailed = prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "documents_failed_total",
			Help:      "Documents whose render failed",
		})
		pr.documentsSkipped = prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "documents_skipped_total",
			Help:      "Documents skipped for malformed front matter",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.documentsRendered, pr.documentsFailed, pr.documentsSkipped)
	})
	return pr
}

// Registry exposes the backing registry for textfile export.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddDocumentsRendered(n int) {
	if p == nil || p.documentsRendered == nil {
		return
	}
	p.documentsRendered.Add(float64(n))
}

func (p *PrometheusRecorder) AddDocumentsFailed(n int) {
	if p == nil || p.documentsFailed == nil {
		return
	}
	p.documentsFailed.Add(float64(n))
}

func (p *PrometheusRecorder) AddDocumentsSkipped(n int) {
	if p == nil || p.documentsSkipped == nil {
		return
	}
	p.documentsSkipped.Add(float64(n))
}
