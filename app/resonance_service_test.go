package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golattice/adapters/catalog"
	"golattice/adapters/montecarlo"
	"golattice/adapters/rng"
	"golattice/domain/lattice"
	"golattice/ports"
)

// fixedBaseline returns a canned estimate; studies under test never need a
// real Monte Carlo run.
type fixedBaseline struct {
	rate float64
	last ports.BaselineRequest
}

func (f *fixedBaseline) Sample(ctx context.Context, req ports.BaselineRequest) (*ports.BaselineEstimate, error) {
	f.last = req
	return &ports.BaselineEstimate{
		Samples:   req.Samples,
		Accepted:  int(float64(req.Samples) * f.rate),
		Rate:      f.rate,
		LogMin:    req.LogMin,
		LogMax:    req.LogMax,
		Threshold: req.Threshold,
		Seed:      req.Seed,
	}, nil
}

func studyRequest() ports.StudyRequest {
	return ports.StudyRequest{
		Search:    lattice.SearchConfig{Base: lattice.GoldenRatio, MMax: 14},
		Mode:      lattice.ModeSingle,
		Threshold: 0.2,
		Samples:   1000,
		LogMin:    -6,
		LogMax:    6,
		Seed:      42,
	}
}

func TestFitBatch_PreservesInputOrder(t *testing.T) {
	svc := NewResonanceService(catalog.NewBuiltin(), &fixedBaseline{rate: 0.3})
	observations := []lattice.Observation{
		{Name: "a", Value: 206.77},
		{Name: "b", Value: 1836.15267343},
		{Name: "c", Value: 3477.48},
	}

	fits, skipped, err := svc.FitBatch(context.Background(),
		observations, lattice.SearchConfig{Base: lattice.GoldenRatio, MMax: 14}, false)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, fits, 3)
	for i, f := range fits {
		assert.Equal(t, observations[i].Name, f.Observation.Name)
	}
}

func TestFitBatch_SkipsDomainErrorsWhenAsked(t *testing.T) {
	svc := NewResonanceService(catalog.NewBuiltin(), &fixedBaseline{rate: 0.3})
	observations := []lattice.Observation{
		{Name: "good", Value: 206.77},
		{Name: "bad", Value: -1},
	}
	cfg := lattice.SearchConfig{Base: lattice.GoldenRatio, MMax: 14}

	t.Run("continue on error", func(t *testing.T) {
		fits, skipped, err := svc.FitBatch(context.Background(), observations, cfg, true)
		require.NoError(t, err)
		assert.Len(t, fits, 1)
		assert.Equal(t, []string{"bad"}, skipped)
	})

	t.Run("abort on first error", func(t *testing.T) {
		_, _, err := svc.FitBatch(context.Background(), observations, cfg, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad")
	})
}

func TestRunStudy_WiresBaselineIntoReport(t *testing.T) {
	baseline := &fixedBaseline{rate: 0.25}
	svc := NewResonanceService(catalog.NewBuiltin(), baseline)

	result, err := svc.RunStudy(context.Background(), studyRequest())
	require.NoError(t, err)

	assert.False(t, result.RunID.String() == "")
	assert.Equal(t, 0.25, result.Report.BaselineRate)
	assert.Equal(t, 16, result.Report.Total)
	assert.Equal(t, int64(42), baseline.last.Seed)
	assert.InDelta(t, float64(result.Report.Total)*0.25, result.Report.Expected, 1e-12)
}

func TestRunStudy_SameSeedReproducesBaseline(t *testing.T) {
	// Each study stamps a fresh run ID, but the Monte Carlo draws depend only
	// on the request: two identical studies must agree draw for draw.
	svc := NewResonanceService(catalog.NewBuiltin(), montecarlo.NewSampler(rng.New()))
	req := studyRequest()
	req.Samples = 4000

	a, err := svc.RunStudy(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.RunStudy(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Baseline.Accepted, b.Baseline.Accepted)
	assert.Equal(t, a.Baseline.Rate, b.Baseline.Rate)
	assert.Equal(t, a.Report.PValue, b.Report.PValue)
}

func TestRunStudy_DoubleModeScoresResiduals(t *testing.T) {
	svc := NewResonanceService(catalog.NewBuiltin(), &fixedBaseline{rate: 0.5})
	req := studyRequest()
	req.Mode = lattice.ModeDouble
	req.Threshold = 0.02

	result, err := svc.RunStudy(context.Background(), req)
	require.NoError(t, err)

	// Double residuals are small almost everywhere; the success count under
	// a residual threshold must reflect the double metric, not |c-1|.
	want := 0
	for _, f := range result.Fits {
		if f.Double.Quality() < req.Threshold {
			want++
		}
	}
	assert.Equal(t, want, result.Report.Successes)
}

func TestRunStudy_ThresholdIsMandatory(t *testing.T) {
	svc := NewResonanceService(catalog.NewBuiltin(), &fixedBaseline{rate: 0.3})
	req := studyRequest()
	req.Threshold = 0

	_, err := svc.RunStudy(context.Background(), req)
	require.Error(t, err)
}
