package lattice

import (
	"math"

	"golattice/domain/core"
)

// FitSingle searches for the best single-correction representation
//
//	value = base^(n + sign*c*base^(-m))
//
// The anchor exponent n is the nearest integer to log_base(value); half-
// integer ties round to even (math.RoundToEven), so base^2.5 anchors at
// n=2 and base^3.5 at n=4. The coefficient c is solved algebraically for
// each (m, sign) candidate and the search keeps the candidate whose c is
// closest to 1. Candidates with c < 0 are rejected: a negative coefficient
// means the sign already disagrees with delta.
//
// Deterministic, O(MMax), no randomness.
func FitSingle(value float64, cfg SearchConfig) (SingleFit, error) {
	if err := cfg.validate(1, core.ErrInvalidDepth); err != nil {
		return SingleFit{}, err
	}
	n, delta, err := anchor(value, cfg.Base)
	if err != nil {
		return SingleFit{}, err
	}

	fit := SingleFit{N: n, Delta: delta, Sign: 1, Objective: ObjectiveCoefficient}
	if math.Abs(delta) < cfg.exactEps() {
		// Exact integer power. The correction search would divide by a
		// near-zero delta and report a meaningless coefficient.
		fit.Exact = true
		fit.CDeviation = math.Abs(delta)
		return fit, nil
	}

	bestDev := math.Inf(1)
	for m := 1; m <= cfg.MMax; m++ {
		term := math.Pow(cfg.Base, float64(-m))
		for _, sign := range []int{-1, 1} {
			c := delta / (float64(sign) * term)
			if c < 0 {
				continue
			}
			if dev := math.Abs(c - 1); dev < bestDev {
				bestDev = dev
				fit.M = m
				fit.Sign = sign
				fit.C = c
				fit.CDeviation = dev
			}
		}
	}
	return fit, nil
}

// FitDouble exhaustively searches for the best double-correction
// representation
//
//	value ~ base^(n + sign1*base^(-m1) + sign2*base^(-m2)),  m1 < m2
//
// There is no closed form for two unknowns from one equation, so instead of
// solving a coefficient the search minimizes the additive residual
// |delta - (sign1*base^(-m1) + sign2*base^(-m2))| directly. This is a
// different optimization target from FitSingle and is kept that way on
// purpose; the Objective tag on the result records which target applied.
//
// Deterministic, O(MMax^2). Exits early on a zero residual.
func FitDouble(value float64, cfg SearchConfig) (DoubleFit, error) {
	if err := cfg.validate(3, core.ErrInvalidDepth); err != nil {
		return DoubleFit{}, err
	}
	n, delta, err := anchor(value, cfg.Base)
	if err != nil {
		return DoubleFit{}, err
	}

	fit := DoubleFit{N: n, Delta: delta, Sign1: 1, Sign2: 1, Objective: ObjectiveResidual}
	if math.Abs(delta) < cfg.exactEps() {
		fit.Exact = true
		fit.Residual = math.Abs(delta)
		return fit, nil
	}

	best := math.Inf(1)
	for m1 := 2; m1 < cfg.MMax; m1++ {
		term1 := math.Pow(cfg.Base, float64(-m1))
		for m2 := m1 + 1; m2 <= cfg.MMax; m2++ {
			term2 := math.Pow(cfg.Base, float64(-m2))
			for _, s1 := range []int{-1, 1} {
				for _, s2 := range []int{-1, 1} {
					residual := math.Abs(delta - (float64(s1)*term1 + float64(s2)*term2))
					if residual < best {
						best = residual
						fit.M1, fit.M2 = m1, m2
						fit.Sign1, fit.Sign2 = s1, s2
						fit.Residual = residual
						if residual == 0 {
							return fit, nil
						}
					}
				}
			}
		}
	}
	return fit, nil
}

// Reconstruct rebuilds the value a single-correction fit represents.
// For non-degenerate fits this equals the original input to floating
// precision, because c was solved algebraically from delta.
func Reconstruct(fit SingleFit, base float64) float64 {
	exponent := float64(fit.N)
	if !fit.Exact {
		exponent += float64(fit.Sign) * fit.C * math.Pow(base, float64(-fit.M))
	}
	return math.Pow(base, exponent)
}

// anchor computes the nearest-integer base power and the signed residual
// exponent. Values <= 0 are a domain error, never coerced to NaN.
func anchor(value, base float64) (int, float64, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, 0, core.NewDomainError(core.ErrNonPositiveValue, value)
	}
	logPower := math.Log(value) / math.Log(base)
	n := math.RoundToEven(logPower)
	return int(n), logPower - n, nil
}
