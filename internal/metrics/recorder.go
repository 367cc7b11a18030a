package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// EnhancementOutcome is the final state of one file in the enhancement loop.
type EnhancementOutcome string

const (
	EnhancementSuccess   EnhancementOutcome = "success"
	EnhancementSkipped   EnhancementOutcome = "skipped"
	EnhancementExhausted EnhancementOutcome = "exhausted"
)

// Recorder defines observability hooks for a pipeline run. Implementations
// may forward to Prometheus or a test double.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|warning|failed|canceled
	IncEnhancementAttempt()
	IncEnhancementOutcome(outcome EnhancementOutcome)
	AddValidationIssues(issueType string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) IncEnhancementAttempt()                     {}
func (NoopRecorder) IncEnhancementOutcome(EnhancementOutcome)   {}
func (NoopRecorder) AddValidationIssues(string, int)            {}
