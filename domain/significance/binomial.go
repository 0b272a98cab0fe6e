package significance

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// binomialTail returns P(X >= k) for X ~ Binomial(n, p) as a direct sum of
// pmf terms. The regularized-incomplete-beta CDF would also be exact in
// principle, but the plain sum keeps the identity P(X >= n) == p^n at
// floating precision, which the callers rely on at small n.
func binomialTail(n, k int, p float64) float64 {
	switch {
	case k <= 0:
		return 1
	case k > n:
		return 0
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}

	dist := distuv.Binomial{N: float64(n), P: p}
	sum := 0.0
	for i := k; i <= n; i++ {
		sum += dist.Prob(float64(i))
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}

// zScore is the normal approximation (k - np) / sqrt(np(1-p)). Returns 0
// when the variance degenerates.
func zScore(n, k int, p float64) float64 {
	variance := float64(n) * p * (1 - p)
	if variance <= 0 {
		return 0
	}
	return (float64(k) - float64(n)*p) / math.Sqrt(variance)
}

// normalUpperTail is P(Z >= z) for the unit normal.
func normalUpperTail(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// bayesFactor is Binomial(k; n, p1) / Binomial(k; n, p0), computed in log
// space. Both rates must lie strictly inside (0, 1).
func bayesFactor(n, k int, p0, p1 float64) float64 {
	h0 := distuv.Binomial{N: float64(n), P: p0}
	h1 := distuv.Binomial{N: float64(n), P: p1}
	return math.Exp(h1.LogProb(float64(k)) - h0.LogProb(float64(k)))
}
