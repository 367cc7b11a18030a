package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docapply"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                sync.Once
	registry            *prom.Registry
	stageDuration       *prom.HistogramVec
	runDuration         prom.Histogram
	stageResults        *prom.CounterVec
	runOutcome          *prom.CounterVec
	enhancementAttempts prom.Counter
	enhancementOutcome  *prom.CounterVec
	validationIssues    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.enhancementAttempts = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "enhancement_attempts_total",
			Help:      "Generation attempts made by the enhancement loop",
		})
		pr.enhancementOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "enhancement_outcomes_total",
			Help:      "Enhanced files by final state",
		}, []string{"outcome"})
		pr.validationIssues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_issues_total",
			Help:      "Validation issues found by type",
		}, []string{"issue_type"})
		reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome,
			pr.enhancementAttempts, pr.enhancementOutcome, pr.validationIssues)
	})
	return pr
}

// Registry returns the registry the recorder's collectors are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncEnhancementAttempt() {
	if p == nil || p.enhancementAttempts == nil {
		return
	}
	p.enhancementAttempts.Inc()
}

func (p *PrometheusRecorder) IncEnhancementOutcome(outcome EnhancementOutcome) {
	if p == nil || p.enhancementOutcome == nil {
		return
	}
	p.enhancementOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddValidationIssues(issueType string, n int) {
	if p == nil || p.validationIssues == nil || n <= 0 {
		return
	}
	p.validationIssues.WithLabelValues(issueType).Add(float64(n))
}
