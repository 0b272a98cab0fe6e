package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"golattice/domain/core"
	"golattice/domain/lattice"
	"golattice/domain/significance"
	"golattice/ports"
)

// ResonanceService orchestrates a full study: fit every catalogue
// observation against the lattice, estimate the chance baseline, evaluate
// significance. It holds no mutable state; every run produces a fresh
// StudyResult.
type ResonanceService struct {
	catalog  ports.CatalogPort
	baseline ports.BaselinePort
}

// NewResonanceService creates a resonance study service.
func NewResonanceService(catalog ports.CatalogPort, baseline ports.BaselinePort) *ResonanceService {
	return &ResonanceService{catalog: catalog, baseline: baseline}
}

// FitBatch fits all observations in parallel. Each fit is a pure function
// of one value, so the batch partitions freely; result order follows input
// order regardless of scheduling. With continueOnError, observations that
// fail (e.g. a non-positive value) are skipped and their names returned.
func (s *ResonanceService) FitBatch(ctx context.Context, observations []lattice.Observation, cfg lattice.SearchConfig, continueOnError bool) ([]lattice.ObservationFit, []string, error) {
	results := make([]*lattice.ObservationFit, len(observations))
	var mu sync.Mutex
	var skipped []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, obs := range observations {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			single, err := lattice.FitSingle(obs.Value, cfg)
			if err == nil {
				var double lattice.DoubleFit
				double, err = lattice.FitDouble(obs.Value, cfg)
				if err == nil {
					results[i] = &lattice.ObservationFit{Observation: obs, Single: single, Double: double}
					return nil
				}
			}
			if continueOnError && core.IsDomainError(err) {
				mu.Lock()
				skipped = append(skipped, obs.Name)
				mu.Unlock()
				return nil
			}
			return fmt.Errorf("fit %s: %w", obs.Name, err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	fits := make([]lattice.ObservationFit, 0, len(observations))
	for _, r := range results {
		if r != nil {
			fits = append(fits, *r)
		}
	}
	return fits, skipped, nil
}

// RunStudy executes the full pipeline for one request.
func (s *ResonanceService) RunStudy(ctx context.Context, req ports.StudyRequest) (*ports.StudyResult, error) {
	start := time.Now()
	runID := core.RunID(core.NewID())

	observations, err := s.catalog.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}

	fits, skipped, err := s.FitBatch(ctx, observations, req.Search, req.ContinueOnError)
	if err != nil {
		return nil, err
	}

	estimate, err := s.baseline.Sample(ctx, ports.BaselineRequest{
		Search:    req.Search,
		Mode:      req.Mode,
		Samples:   req.Samples,
		LogMin:    req.LogMin,
		LogMax:    req.LogMax,
		Threshold: req.Threshold,
		Seed:      req.Seed,
		Workers:   req.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("baseline estimation: %w", err)
	}

	report, err := significance.Evaluate(qualityMetrics(fits, req.Mode), significance.Config{
		BaselineRate: estimate.Rate,
		Threshold:    req.Threshold,
		AltRate:      req.AltRate,
	})
	if err != nil {
		return nil, fmt.Errorf("significance evaluation: %w", err)
	}

	return &ports.StudyResult{
		RunID:     runID,
		Fits:      fits,
		Skipped:   skipped,
		Baseline:  *estimate,
		Report:    report,
		Mode:      req.Mode,
		Search:    req.Search,
		Seed:      req.Seed,
		RuntimeMs: time.Since(start).Milliseconds(),
		CreatedAt: core.Now(),
	}, nil
}

// qualityMetrics extracts the acceptance metric matching the study mode.
// The two fit forms score different things (coefficient closeness vs
// additive residual); a study tests one of them, never a mixture.
func qualityMetrics(fits []lattice.ObservationFit, mode lattice.Mode) []float64 {
	metrics := make([]float64, len(fits))
	for i, f := range fits {
		if mode == lattice.ModeDouble {
			metrics[i] = f.Double.Quality()
		} else {
			metrics[i] = f.Single.Quality()
		}
	}
	return metrics
}
