package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream creates a deterministic RNG substream for one worker of a named
	// operation. The stream is a pure function of (operation, worker,
	// baseSeed): distinct (operation, worker) pairs must yield
	// non-overlapping streams so parallel workers never share draws, and the
	// same inputs must always reproduce the same draws.
	Stream(ctx context.Context, operation string, worker int, baseSeed int64) (*rand.Rand, error)
}
