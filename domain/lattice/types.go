package lattice

import (
	"golattice/domain/core"
)

// Observation is a caller-supplied positive value to be fit against the
// lattice. It is immutable; the fitter never mutates it.
type Observation struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Category string  `json:"category,omitempty"` // grouping only, never used by the search
}

// Objective names the optimization target a fit result was produced under.
// The single- and double-correction searches intentionally optimize
// different targets; results carry the tag so downstream consumers never
// have to guess which metric a number means.
type Objective string

const (
	// ObjectiveCoefficient minimizes |c - 1| (single-correction search).
	ObjectiveCoefficient Objective = "coefficient"
	// ObjectiveResidual minimizes the additive exponent residual
	// (double-correction search).
	ObjectiveResidual Objective = "residual"
)

// Mode selects which search the baseline sampler exercises.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeDouble Mode = "double"
)

// SearchConfig bounds the lattice search.
// INVARIANTS:
// - Base > 1 (the exponential base, e.g. the golden ratio)
// - MMax >= 1 for the single search, >= 3 for the double search
// - ExactEps > 0; |delta| below it short-circuits to the exact case
type SearchConfig struct {
	Base     float64 `json:"base"`
	MMax     int     `json:"m_max"`
	ExactEps float64 `json:"exact_eps,omitempty"`
}

// GoldenRatio is the irrational base used by the catalogue studies. Any
// base > 1 works; this one is the default everywhere a base is optional.
const GoldenRatio = 1.618033988749895

// DefaultExactEps is the residual-exponent magnitude below which a value is
// treated as an exact integer power. Forcing such values through the
// correction search would divide by delta ~ 0 and fabricate a huge c.
const DefaultExactEps = 1e-3

// DefaultMMax matches the correction-depth bound used across the catalogue
// studies.
const DefaultMMax = 14

// exactEps returns the configured epsilon or the default.
func (c SearchConfig) exactEps() float64 {
	if c.ExactEps > 0 {
		return c.ExactEps
	}
	return DefaultExactEps
}

func (c SearchConfig) validate(minDepth int, bound error) error {
	if c.Base <= 1 {
		return core.NewConfigError(core.ErrInvalidBase, "base", c.Base)
	}
	if c.MMax < minDepth {
		return core.NewConfigError(bound, "m_max", c.MMax)
	}
	return nil
}

// SingleFit is the output of the single-correction search
// value = base^(n + sign*c*base^(-m)).
type SingleFit struct {
	N          int       `json:"n"`           // anchor exponent (nearest integer, half ties to even)
	Delta      float64   `json:"delta"`       // log_base(value) - n, |delta| <= 0.5
	M          int       `json:"m"`           // chosen correction depth, 0 in the exact case
	Sign       int       `json:"sign"`        // -1 or +1
	C          float64   `json:"c"`           // fitted coefficient, >= 0, solved algebraically
	CDeviation float64   `json:"c_deviation"` // |c - 1|, the quality metric
	Exact      bool      `json:"exact"`       // |delta| < eps: value is an integer power
	Objective  Objective `json:"objective"`
}

// Quality returns the acceptance metric for this fit form.
func (f SingleFit) Quality() float64 {
	if f.Exact {
		return 0
	}
	return f.CDeviation
}

// DoubleFit is the output of the double-correction search
// value ~ base^(n + sign1*base^(-m1) + sign2*base^(-m2)).
// Unlike SingleFit, no coefficient exists: the residual is a true
// approximation error in exponent space.
type DoubleFit struct {
	N         int       `json:"n"`
	Delta     float64   `json:"delta"`
	M1        int       `json:"m1"`
	M2        int       `json:"m2"`
	Sign1     int       `json:"sign1"`
	Sign2     int       `json:"sign2"`
	Residual  float64   `json:"residual"`
	Exact     bool      `json:"exact"`
	Objective Objective `json:"objective"`
}

// Quality returns the acceptance metric for this fit form.
func (f DoubleFit) Quality() float64 {
	if f.Exact {
		return 0
	}
	return f.Residual
}

// ObservationFit pairs an observation with both fit forms.
type ObservationFit struct {
	Observation Observation `json:"observation"`
	Single      SingleFit   `json:"single"`
	Double      DoubleFit   `json:"double"`
}
