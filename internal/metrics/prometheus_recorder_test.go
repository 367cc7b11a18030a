package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("analyze", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("analyze", ResultSuccess)
	pr.IncRunOutcome("success")
	pr.IncEnhancementAttempt()
	pr.IncEnhancementAttempt()
	pr.IncEnhancementOutcome(EnhancementExhausted)
	pr.AddValidationIssues("broken_link", 3)
	pr.AddValidationIssues("empty_section", 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	counters := map[string][]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				counters[mf.GetName()] = append(counters[mf.GetName()], c.GetValue())
			}
		}
	}

	assert.Equal(t, []float64{2}, counters["docapply_enhancement_attempts_total"])
	assert.Equal(t, []float64{1}, counters["docapply_enhancement_outcomes_total"])
	// Zero additions do not create a series.
	assert.Equal(t, []float64{3}, counters["docapply_validation_issues_total"])
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncEnhancementAttempt()
		pr.IncRunOutcome("failed")
		pr.ObserveStageDuration("validate", time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncEnhancementOutcome(EnhancementSuccess)

	path := filepath.Join(t.TempDir(), "collector", "docapply.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `docapply_enhancement_outcomes_total{outcome="success"} 1`))
}
