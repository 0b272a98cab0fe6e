// Package rng provides the deterministic random stream adapter. Every
// stochastic operation in the system draws from a stream derived here, so
// identical seeds reproduce identical results regardless of worker count.
package rng

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Adapter implements ports.RNGPort over math/rand with hashed seed mixing.
type Adapter struct{}

// New creates the deterministic RNG adapter.
func New() *Adapter {
	return &Adapter{}
}

// Stream creates a deterministic RNG substream for one worker of a named
// operation. The derived seed hashes the operation and worker index into the
// base seed, nothing else, so the same (operation, worker, baseSeed) always
// reproduces the same draws and distinct workers never overlap.
func (a *Adapter) Stream(ctx context.Context, operation string, worker int, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if operation != "" {
		seed = mix(seed, operation)
	}
	seed = mix(seed, fmt.Sprintf("worker-%d", worker))
	return rand.New(rand.NewSource(seed)), nil
}

// mix folds a label into a seed via FNV-1a.
func mix(seed int64, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	return seed ^ int64(h.Sum64())
}
