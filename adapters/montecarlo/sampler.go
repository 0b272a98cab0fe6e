// Package montecarlo estimates the null-model baseline rate: how often an
// arbitrary value, drawn log-uniformly over a caller-chosen decade range,
// satisfies the lattice acceptance criterion by chance.
package montecarlo

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"golattice/domain/core"
	"golattice/domain/lattice"
	"golattice/ports"
)

// Sampler implements ports.BaselinePort. Trials are partitioned across
// workers; each worker draws from its own derived RNG substream, never a
// shared one, so a request with the same (samples, range, seed, workers)
// always reproduces the identical estimate. Leave Workers at its default
// when comparing runs across machines.
type Sampler struct {
	rng ports.RNGPort
}

// defaultWorkers is the fan-out used when the request does not pin one.
const defaultWorkers = 8

// NewSampler creates a baseline sampler over the given RNG port.
func NewSampler(rng ports.RNGPort) *Sampler {
	return &Sampler{rng: rng}
}

// Sample runs the Monte Carlo estimation described by req.
func (s *Sampler) Sample(ctx context.Context, req ports.BaselineRequest) (*ports.BaselineEstimate, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	workers := req.Workers
	if workers <= 0 {
		// A fixed default, not NumCPU: the partition feeds the substream
		// derivation, so it must be a pure function of the request.
		workers = defaultWorkers
	}
	if workers > req.Samples {
		workers = req.Samples
	}

	// Worker w always handles the same trial count with the same substream
	// for a given request, so the partition is a pure function of the input.
	counts := make([]int, workers)
	accepted := make([]int, workers)
	per := req.Samples / workers
	rem := req.Samples % workers
	for w := 0; w < workers; w++ {
		counts[w] = per
		if w < rem {
			counts[w]++
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			stream, err := s.rng.Stream(ctx, "baseline", w, req.Seed)
			if err != nil {
				return err
			}
			span := req.LogMax - req.LogMin
			for i := 0; i < counts[w]; i++ {
				value := math.Pow(10, req.LogMin+stream.Float64()*span)
				ok, err := accepts(value, req)
				if err != nil {
					return err
				}
				if ok {
					accepted[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, a := range accepted {
		total += a
	}
	rate := float64(total) / float64(req.Samples)

	return &ports.BaselineEstimate{
		Samples:   req.Samples,
		Accepted:  total,
		Rate:      rate,
		StdErr:    math.Sqrt(rate * (1 - rate) / float64(req.Samples)),
		LogMin:    req.LogMin,
		LogMax:    req.LogMax,
		Threshold: req.Threshold,
		Seed:      req.Seed,
	}, nil
}

// accepts fits one synthetic value and applies the acceptance cut.
func accepts(value float64, req ports.BaselineRequest) (bool, error) {
	switch req.Mode {
	case lattice.ModeDouble:
		fit, err := lattice.FitDouble(value, req.Search)
		if err != nil {
			return false, err
		}
		return fit.Quality() < req.Threshold, nil
	default:
		fit, err := lattice.FitSingle(value, req.Search)
		if err != nil {
			return false, err
		}
		return fit.Quality() < req.Threshold, nil
	}
}

func validate(req ports.BaselineRequest) error {
	if req.Samples <= 0 {
		return core.NewConfigError(core.ErrInvalidSampleCount, "samples", req.Samples)
	}
	if req.LogMin >= req.LogMax {
		return core.NewConfigError(core.ErrInvalidDecadeRange, "log_min/log_max", [2]float64{req.LogMin, req.LogMax})
	}
	if req.Threshold <= 0 {
		return core.NewConfigError(core.ErrInvalidThreshold, "threshold", req.Threshold)
	}
	return nil
}
