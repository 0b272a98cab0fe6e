package ports

import (
	"context"

	"golattice/domain/lattice"
)

// CatalogPort supplies the observations under study. The catalogue is owned
// by the caller side of the port: implementations return a fresh copy per
// call and the core never mutates or caches it.
type CatalogPort interface {
	Observations(ctx context.Context) ([]lattice.Observation, error)
}
