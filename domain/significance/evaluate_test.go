package significance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golattice/domain/core"
)

func TestEvaluate_EmptyBatchIsVacuous(t *testing.T) {
	report, err := Evaluate(nil, Config{BaselineRate: 0.15, Threshold: 0.2})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Successes)
	assert.Equal(t, 1.0, report.PValue)
	assert.Zero(t, report.ZScore)
}

func TestEvaluate_AllSuccessTailIsRateToTheN(t *testing.T) {
	// P(X >= n) under Binomial(n, p) is exactly p^n.
	metrics := []float64{0.01, 0.05, 0.1, 0.02, 0.15}
	rate := 0.3
	report, err := Evaluate(metrics, Config{BaselineRate: rate, Threshold: 0.2})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Successes)
	assert.InDelta(t, math.Pow(rate, 5), report.PValue, 1e-12)
}

func TestEvaluate_CountsThresholdStrictly(t *testing.T) {
	// A metric exactly at the threshold is not a success.
	report, err := Evaluate([]float64{0.2, 0.19, 0.3}, Config{BaselineRate: 0.5, Threshold: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Successes)
}

func TestEvaluate_ExactTailSmallCase(t *testing.T) {
	// Binomial(3, 0.5): P(X >= 2) = C(3,2)/8 + C(3,3)/8 = 0.5.
	report, err := Evaluate([]float64{0.1, 0.1, 0.9}, Config{BaselineRate: 0.5, Threshold: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Successes)
	assert.InDelta(t, 0.5, report.PValue, 1e-12)
}

func TestEvaluate_ZScoreFormula(t *testing.T) {
	report, err := Evaluate(
		[]float64{0.1, 0.1, 0.1, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9},
		Config{BaselineRate: 0.2, Threshold: 0.2},
	)
	require.NoError(t, err)

	n, k, p := 10.0, 3.0, 0.2
	want := (k - n*p) / math.Sqrt(n*p*(1-p))
	assert.InDelta(t, want, report.ZScore, 1e-12)
	assert.InDelta(t, n*p, report.Expected, 1e-12)
	// Normal approximation is reported alongside, never as the primary value.
	assert.Greater(t, report.NormalPValue, 0.0)
	assert.Less(t, report.NormalPValue, 1.0)
}

func TestEvaluate_BayesFactor(t *testing.T) {
	// Binomial(4, k=3): pmf is 0.25 at p=0.5 and 0.2916 at p=0.9.
	metrics := []float64{0.1, 0.1, 0.1, 0.9}
	report, err := Evaluate(metrics, Config{BaselineRate: 0.5, Threshold: 0.2, AltRate: 0.9})
	require.NoError(t, err)

	assert.InDelta(t, 0.2916/0.25, report.BayesFactor, 1e-9)
	assert.Equal(t, GradeWeak, report.Grade)
}

func TestEvaluate_BayesFactorOmittedByDefault(t *testing.T) {
	report, err := Evaluate([]float64{0.1}, Config{BaselineRate: 0.5, Threshold: 0.2})
	require.NoError(t, err)
	assert.Zero(t, report.BayesFactor)
	assert.Empty(t, report.Grade)
}

func TestEvaluate_Deterministic(t *testing.T) {
	metrics := []float64{0.05, 0.25, 0.11, 0.4}
	cfg := Config{BaselineRate: 0.32, Threshold: 0.2, AltRate: 0.85}

	a, err := Evaluate(metrics, cfg)
	require.NoError(t, err)
	b, err := Evaluate(metrics, cfg)
	require.NoError(t, err)

	// CreatedAt differs between calls; every statistic must not.
	a.CreatedAt, b.CreatedAt = core.Timestamp{}, core.Timestamp{}
	assert.Equal(t, a, b)
}

func TestEvaluate_MoreSuccessesShrinkPValue(t *testing.T) {
	cfg := Config{BaselineRate: 0.3, Threshold: 0.2}
	few, err := Evaluate([]float64{0.1, 0.9, 0.9, 0.9}, cfg)
	require.NoError(t, err)
	many, err := Evaluate([]float64{0.1, 0.1, 0.1, 0.9}, cfg)
	require.NoError(t, err)
	assert.Less(t, many.PValue, few.PValue)
}

func TestEvaluate_ConfigErrors(t *testing.T) {
	t.Run("threshold must be positive", func(t *testing.T) {
		_, err := Evaluate([]float64{0.1}, Config{BaselineRate: 0.3, Threshold: 0})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})

	t.Run("baseline rate outside unit interval", func(t *testing.T) {
		_, err := Evaluate([]float64{0.1}, Config{BaselineRate: 1.2, Threshold: 0.2})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})

	t.Run("alt rate outside open unit interval", func(t *testing.T) {
		_, err := Evaluate([]float64{0.1}, Config{BaselineRate: 0.3, Threshold: 0.2, AltRate: 1.0})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})

	t.Run("degenerate null with bayes requested", func(t *testing.T) {
		_, err := Evaluate([]float64{0.1}, Config{BaselineRate: 0, Threshold: 0.2, AltRate: 0.9})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})
}

func TestBinomialTail_Edges(t *testing.T) {
	assert.Equal(t, 1.0, binomialTail(10, 0, 0.3))
	assert.Equal(t, 0.0, binomialTail(10, 11, 0.3))
	assert.Equal(t, 0.0, binomialTail(10, 3, 0))
	assert.Equal(t, 1.0, binomialTail(10, 3, 1))
}
