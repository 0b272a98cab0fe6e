package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golattice/adapters/catalog"
	"golattice/ports"
)

func sampleResult(t *testing.T) *ports.StudyResult {
	t.Helper()
	svc := NewResonanceService(catalog.NewBuiltin(), &fixedBaseline{rate: 0.3})
	result, err := svc.RunStudy(context.Background(), studyRequest())
	require.NoError(t, err)
	return result
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleResult(t))

	assert.Contains(t, out, "m_proton/m_electron")
	assert.Contains(t, out, "p-value")
	assert.Contains(t, out, "baseline")
	// One row per observation plus header/footer lines.
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 16)
}

func TestRenderMarkdown(t *testing.T) {
	result := sampleResult(t)
	out := RenderMarkdown(result)

	assert.True(t, strings.HasPrefix(out, "# Lattice resonance study"))
	assert.Contains(t, out, "| m_proton/m_electron |")
	assert.Contains(t, out, "exact binomial tail")
	assert.Contains(t, out, result.RunID.String())
}

func TestSummarizeDeviations(t *testing.T) {
	result := sampleResult(t)
	summary := SummarizeDeviations(result)

	assert.GreaterOrEqual(t, summary.Max, summary.Median)
	assert.GreaterOrEqual(t, summary.Median, summary.Min)
	assert.GreaterOrEqual(t, summary.Mean, 0.0)
}

func TestSummarizeDeviations_EmptyRun(t *testing.T) {
	result := &ports.StudyResult{}
	assert.Equal(t, DeviationSummary{}, SummarizeDeviations(result))
}
