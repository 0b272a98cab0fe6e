package significance

import (
	"golattice/domain/core"
)

// Config carries the parameters of a significance evaluation. Threshold and
// BaselineRate are required; there is no default acceptance threshold
// anywhere in the system, the caller must commit to one.
type Config struct {
	// BaselineRate is the probability that an arbitrary value passes the
	// acceptance threshold by chance (from the Monte Carlo sampler or a
	// closed-form model).
	BaselineRate float64 `json:"baseline_rate"`
	// Threshold is the acceptance cut applied to each fit's quality metric.
	Threshold float64 `json:"threshold"`
	// AltRate, when non-zero, enables the Bayes factor: the fixed success
	// probability of the structured alternative hypothesis. It is supplied
	// by the caller and never fit from the data under test, which would be
	// circular.
	AltRate float64 `json:"alt_rate,omitempty"`
}

func (c Config) validate() error {
	if c.Threshold <= 0 {
		return core.NewConfigError(core.ErrInvalidThreshold, "threshold", c.Threshold)
	}
	if c.BaselineRate < 0 || c.BaselineRate > 1 {
		return core.NewConfigError(core.ErrInvalidRate, "baseline_rate", c.BaselineRate)
	}
	if c.AltRate != 0 {
		if c.AltRate <= 0 || c.AltRate >= 1 {
			return core.NewConfigError(core.ErrInvalidAltRate, "alt_rate", c.AltRate)
		}
		if c.BaselineRate <= 0 || c.BaselineRate >= 1 {
			// The likelihood ratio is undefined at a degenerate null.
			return core.NewConfigError(core.ErrInvalidRate, "baseline_rate", c.BaselineRate)
		}
	}
	return nil
}

// EvidenceGrade classifies a Bayes factor on the usual interpretive bands.
type EvidenceGrade string

const (
	GradeNone        EvidenceGrade = "none"
	GradeWeak        EvidenceGrade = "weak"
	GradeSubstantial EvidenceGrade = "substantial"
	GradeStrong      EvidenceGrade = "strong"
	GradeVeryStrong  EvidenceGrade = "very strong"
	GradeDecisive    EvidenceGrade = "decisive"
)

// gradeBayesFactor maps a Bayes factor to its evidence band.
func gradeBayesFactor(bf float64) EvidenceGrade {
	switch {
	case bf > 100:
		return GradeDecisive
	case bf > 30:
		return GradeVeryStrong
	case bf > 10:
		return GradeStrong
	case bf > 3:
		return GradeSubstantial
	case bf > 1:
		return GradeWeak
	default:
		return GradeNone
	}
}

// Report is the immutable output of one evaluation pass. All statistics
// derive from the same (total, successes, baseline_rate) triple; evaluating
// the same inputs twice yields an identical report.
type Report struct {
	Total     int `json:"total"`
	Successes int `json:"successes"`

	BaselineRate float64 `json:"baseline_rate"`
	Threshold    float64 `json:"threshold"`
	// Expected is the success count the null model predicts: total * rate.
	Expected float64 `json:"expected"`

	// PValue is P(X >= successes) under Binomial(total, baseline_rate),
	// computed as the exact tail sum. This is the primary statistic.
	PValue float64 `json:"p_value"`
	// ZScore is the normal-approximation convenience statistic; it is not
	// exact at the small sample counts typical here and PValue governs.
	ZScore float64 `json:"z_score"`
	// NormalPValue is the upper tail of the unit normal at ZScore, reported
	// purely for comparison against the exact PValue.
	NormalPValue float64 `json:"normal_p_value"`

	// BayesFactor compares Binomial(successes; total, alt_rate) against
	// Binomial(successes; total, baseline_rate). Zero when AltRate was not
	// supplied.
	BayesFactor float64       `json:"bayes_factor,omitempty"`
	AltRate     float64       `json:"alt_rate,omitempty"`
	Grade       EvidenceGrade `json:"grade,omitempty"`

	CreatedAt core.Timestamp `json:"created_at"`
}
