package significance

import (
	"golattice/domain/core"
)

// Evaluate aggregates a batch of fit quality metrics into a Report.
//
// Each metric is one observation's acceptance statistic (|c-1| for
// single-correction fits, the additive residual for double-correction fits);
// a metric below cfg.Threshold counts as a success. The p-value is the exact
// binomial tail under the baseline rate.
//
// An empty batch is vacuous, not an error: the report carries zero successes
// and a p-value of 1.
func Evaluate(metrics []float64, cfg Config) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}

	total := len(metrics)
	successes := 0
	for _, m := range metrics {
		if m < cfg.Threshold {
			successes++
		}
	}

	report := Report{
		Total:        total,
		Successes:    successes,
		BaselineRate: cfg.BaselineRate,
		Threshold:    cfg.Threshold,
		Expected:     float64(total) * cfg.BaselineRate,
		PValue:       binomialTail(total, successes, cfg.BaselineRate),
		CreatedAt:    core.Now(),
	}
	if total > 0 {
		report.ZScore = zScore(total, successes, cfg.BaselineRate)
		report.NormalPValue = normalUpperTail(report.ZScore)
	} else {
		report.PValue = 1
		report.NormalPValue = 1
	}

	if cfg.AltRate != 0 && total > 0 {
		report.AltRate = cfg.AltRate
		report.BayesFactor = bayesFactor(total, successes, cfg.BaselineRate, cfg.AltRate)
		report.Grade = gradeBayesFactor(report.BayesFactor)
	}

	return report, nil
}
