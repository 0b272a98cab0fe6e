package ports

import (
	"context"

	"golattice/domain/lattice"
)

// BaselineRequest specifies one Monte Carlo null-model estimation run.
// LogMin/LogMax bound the base-10 decade range the synthetic values are
// drawn from; the range materially changes the rate and is echoed back in
// the estimate rather than hidden behind a default.
type BaselineRequest struct {
	Search    lattice.SearchConfig `json:"search"`
	Mode      lattice.Mode         `json:"mode"`
	Samples   int                  `json:"samples"`
	LogMin    float64              `json:"log_min"`
	LogMax    float64              `json:"log_max"`
	Threshold float64              `json:"threshold"`
	Seed      int64                `json:"seed"`
	// Workers caps the parallel fan-out; 0 selects the sampler's fixed
	// default. The estimate is a pure function of the request, so the same
	// request always reproduces the same accepted count.
	Workers int `json:"workers,omitempty"`
}

// BaselineEstimate is the empirical acceptance rate under the null model.
type BaselineEstimate struct {
	Samples   int     `json:"samples"`
	Accepted  int     `json:"accepted"`
	Rate      float64 `json:"rate"`
	StdErr    float64 `json:"std_err"`
	LogMin    float64 `json:"log_min"`
	LogMax    float64 `json:"log_max"`
	Threshold float64 `json:"threshold"`
	Seed      int64   `json:"seed"`
}

// BaselinePort estimates how often an arbitrary value satisfies the
// acceptance criterion by chance.
type BaselinePort interface {
	Sample(ctx context.Context, req BaselineRequest) (*BaselineEstimate, error)
}
