package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golattice/domain/core"
)

func phiConfig(mMax int) SearchConfig {
	return SearchConfig{Base: GoldenRatio, MMax: mMax}
}

func TestFitSingle_ExactIntegerPowers(t *testing.T) {
	for _, n := range []int{-8, -3, 0, 1, 5, 12} {
		value := math.Pow(GoldenRatio, float64(n))
		fit, err := FitSingle(value, phiConfig(10))
		require.NoError(t, err)
		assert.True(t, fit.Exact, "base^%d should be an exact power", n)
		assert.Equal(t, n, fit.N)
		assert.Equal(t, 0, fit.M)
		assert.Zero(t, fit.C)
		assert.InDelta(t, 0, fit.Quality(), DefaultExactEps)
	}
}

func TestFitSingle_ValueOne(t *testing.T) {
	for _, base := range []float64{GoldenRatio, 2, math.E, 10} {
		fit, err := FitSingle(1.0, SearchConfig{Base: base, MMax: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, fit.N)
		assert.Zero(t, fit.Delta)
		assert.True(t, fit.Exact)
	}
}

func TestFitSingle_ProtonElectronRatio(t *testing.T) {
	// Headline regression anchor: m_proton/m_electron at base phi.
	fit, err := FitSingle(1836.15267343, phiConfig(10))
	require.NoError(t, err)

	assert.Equal(t, 16, fit.N)
	assert.Equal(t, 2, fit.M)
	assert.Equal(t, -1, fit.Sign)
	assert.InDelta(t, 1.0, fit.C, 0.01)
	assert.Equal(t, ObjectiveCoefficient, fit.Objective)
}

func TestFitSingle_TieRoundsToEven(t *testing.T) {
	cfg := SearchConfig{Base: 2, MMax: 8}

	t.Run("half above even anchor", func(t *testing.T) {
		fit, err := FitSingle(math.Pow(2, 2.5), cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, fit.N)
		assert.InDelta(t, 0.5, fit.Delta, 1e-12)
	})

	t.Run("half below even anchor", func(t *testing.T) {
		fit, err := FitSingle(math.Pow(2, 3.5), cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, fit.N)
		assert.InDelta(t, -0.5, fit.Delta, 1e-12)
	})
}

func TestFitSingle_AlgebraicInvariant(t *testing.T) {
	// c is solved, not approximated: reconstruction must return the input.
	values := []float64{1836.15267343, 137.036, 206.77, 3477.48, 0.0072973525693, 42.0}
	for _, v := range values {
		fit, err := FitSingle(v, phiConfig(14))
		require.NoError(t, err)
		if fit.Exact {
			continue
		}
		assert.InEpsilon(t, v, Reconstruct(fit, GoldenRatio), 1e-9, "value %g", v)
		// delta == sign*c*base^(-m) exactly by construction
		assert.InDelta(t, fit.Delta,
			float64(fit.Sign)*fit.C*math.Pow(GoldenRatio, float64(-fit.M)), 1e-15)
	}
}

func TestFitSingle_Deterministic(t *testing.T) {
	a, err := FitSingle(206.77, phiConfig(12))
	require.NoError(t, err)
	b, err := FitSingle(206.77, phiConfig(12))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitSingle_CoefficientNonNegative(t *testing.T) {
	for _, v := range []float64{1.9, 3.3, 17.2, 401.0, 0.004} {
		fit, err := FitSingle(v, phiConfig(14))
		require.NoError(t, err)
		if !fit.Exact {
			assert.GreaterOrEqual(t, fit.C, 0.0, "value %g", v)
		}
	}
}

func TestFitSingle_Errors(t *testing.T) {
	t.Run("non-positive value", func(t *testing.T) {
		for _, v := range []float64{0, -1, -1836.15} {
			_, err := FitSingle(v, phiConfig(10))
			require.Error(t, err)
			assert.True(t, core.IsDomainError(err))
		}
	})

	t.Run("invalid base", func(t *testing.T) {
		_, err := FitSingle(2.0, SearchConfig{Base: 1.0, MMax: 10})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})

	t.Run("invalid depth bound", func(t *testing.T) {
		_, err := FitSingle(2.0, SearchConfig{Base: GoldenRatio, MMax: 0})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})
}

func TestFitDouble_DominatesSingleTerms(t *testing.T) {
	// The double search's residual never loses to any single correction term
	// by more than the smallest lattice step base^(-MMax): it can always
	// extend a single term with a smallest-step second term of either sign.
	cfg := phiConfig(14)
	slack := math.Pow(GoldenRatio, float64(-cfg.MMax))

	for _, v := range []float64{1836.15267343, 206.77, 3477.48, 338960.0, 157410.0, 244620.0} {
		double, err := FitDouble(v, cfg)
		require.NoError(t, err)
		require.False(t, double.Exact)

		bestSingleTerm := math.Inf(1)
		for m := 2; m <= cfg.MMax; m++ {
			term := math.Pow(GoldenRatio, float64(-m))
			for _, s := range []int{-1, 1} {
				if r := math.Abs(double.Delta - float64(s)*term); r < bestSingleTerm {
					bestSingleTerm = r
				}
			}
		}
		assert.LessOrEqual(t, double.Residual, bestSingleTerm+slack, "value %g", v)
	}
}

func TestFitDouble_OrderedDepths(t *testing.T) {
	fit, err := FitDouble(1836.15267343, phiConfig(14))
	require.NoError(t, err)
	assert.Less(t, fit.M1, fit.M2)
	assert.GreaterOrEqual(t, fit.M1, 2)
	assert.LessOrEqual(t, fit.M2, 14)
	assert.Equal(t, ObjectiveResidual, fit.Objective)
}

func TestFitDouble_ExactShortcut(t *testing.T) {
	fit, err := FitDouble(math.Pow(GoldenRatio, 7), phiConfig(14))
	require.NoError(t, err)
	assert.True(t, fit.Exact)
	assert.Equal(t, 7, fit.N)
}

func TestFitDouble_Deterministic(t *testing.T) {
	a, err := FitDouble(338960.0, phiConfig(14))
	require.NoError(t, err)
	b, err := FitDouble(338960.0, phiConfig(14))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitDouble_Errors(t *testing.T) {
	t.Run("depth bound too small for a pair", func(t *testing.T) {
		_, err := FitDouble(2.0, SearchConfig{Base: GoldenRatio, MMax: 2})
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})

	t.Run("non-positive value", func(t *testing.T) {
		_, err := FitDouble(-5, phiConfig(14))
		require.Error(t, err)
		assert.True(t, core.IsDomainError(err))
	})
}
