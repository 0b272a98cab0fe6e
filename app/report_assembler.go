package app

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"golattice/ports"
)

// DeviationSummary describes the spread of the quality metric across a run.
type DeviationSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SummarizeDeviations computes spread statistics for the metric the study
// mode scored. Returns the zero summary for an empty run.
func SummarizeDeviations(result *ports.StudyResult) DeviationSummary {
	metrics := qualityMetrics(result.Fits, result.Mode)
	if len(metrics) == 0 {
		return DeviationSummary{}
	}
	mean, _ := stats.Mean(metrics)
	median, _ := stats.Median(metrics)
	min, _ := stats.Min(metrics)
	max, _ := stats.Max(metrics)
	return DeviationSummary{Mean: mean, Median: median, Min: min, Max: max}
}

// RenderTable formats a study result as a fixed-width text table for
// terminal output.
func RenderTable(result *ports.StudyResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s  (base=%.12g m_max=%d mode=%s seed=%d)\n",
		result.RunID, result.Search.Base, result.Search.MMax, result.Mode, result.Seed)
	fmt.Fprintf(&b, "%-24s %-12s %14s %5s %4s %5s %12s %10s\n",
		"name", "category", "value", "n", "m", "sign", "c", "quality")

	for _, f := range result.Fits {
		s := f.Single
		if s.Exact {
			fmt.Fprintf(&b, "%-24s %-12s %14.6g %5d %4s %5s %12s %10s\n",
				f.Observation.Name, f.Observation.Category, f.Observation.Value,
				s.N, "-", "-", "-", "exact")
			continue
		}
		fmt.Fprintf(&b, "%-24s %-12s %14.6g %5d %4d %5d %12.6f %10.6f\n",
			f.Observation.Name, f.Observation.Category, f.Observation.Value,
			s.N, s.M, s.Sign, s.C, s.Quality())
	}

	for _, name := range result.Skipped {
		fmt.Fprintf(&b, "%-24s skipped (domain error)\n", name)
	}

	r := result.Report
	fmt.Fprintf(&b, "\nsuccesses: %d/%d  threshold: %g  baseline: %.4f (±%.4f, decades [%g, %g])\n",
		r.Successes, r.Total, r.Threshold, result.Baseline.Rate, result.Baseline.StdErr,
		result.Baseline.LogMin, result.Baseline.LogMax)
	fmt.Fprintf(&b, "expected by chance: %.2f  p-value (exact binomial): %.6g  z: %.3f\n",
		r.Expected, r.PValue, r.ZScore)
	if r.BayesFactor != 0 {
		fmt.Fprintf(&b, "bayes factor vs p1=%.2f: %.3g (%s)\n", r.AltRate, r.BayesFactor, r.Grade)
	}
	return b.String()
}

// RenderMarkdown formats a study result as a markdown document. The HTTP
// surface renders this to HTML; the CLI can emit it directly.
func RenderMarkdown(result *ports.StudyResult) string {
	var b strings.Builder
	r := result.Report

	fmt.Fprintf(&b, "# Lattice resonance study `%s`\n\n", result.RunID)
	fmt.Fprintf(&b, "- base: `%.12g`, depth bound: `%d`, mode: `%s`, seed: `%d`\n",
		result.Search.Base, result.Search.MMax, result.Mode, result.Seed)
	fmt.Fprintf(&b, "- baseline: `%.4f` ± `%.4f` over decades `[%g, %g]` (%d samples)\n",
		result.Baseline.Rate, result.Baseline.StdErr,
		result.Baseline.LogMin, result.Baseline.LogMax, result.Baseline.Samples)
	fmt.Fprintf(&b, "- successes: `%d/%d` at threshold `%g`, expected `%.2f` by chance\n",
		r.Successes, r.Total, r.Threshold, r.Expected)
	fmt.Fprintf(&b, "- p-value (exact binomial tail): `%.6g`; z-score (normal approx.): `%.3f`\n",
		r.PValue, r.ZScore)
	if r.BayesFactor != 0 {
		fmt.Fprintf(&b, "- Bayes factor vs fixed alternative `p1=%.2f`: `%.3g` — %s evidence\n",
			r.AltRate, r.BayesFactor, r.Grade)
	}

	summary := SummarizeDeviations(result)
	fmt.Fprintf(&b, "- quality metric spread: mean `%.4f`, median `%.4f`, range `[%.4f, %.4f]`\n\n",
		summary.Mean, summary.Median, summary.Min, summary.Max)

	b.WriteString("| name | category | value | n | single fit | quality | double residual |\n")
	b.WriteString("|------|----------|-------|---|------------|---------|------------------|\n")
	for _, f := range result.Fits {
		s, d := f.Single, f.Double
		single := "exact power"
		if !s.Exact {
			single = fmt.Sprintf("m=%d sign=%+d c=%.4f", s.M, s.Sign, s.C)
		}
		doubleCol := "exact power"
		if !d.Exact {
			doubleCol = fmt.Sprintf("%.6f (m1=%d m2=%d)", d.Residual, d.M1, d.M2)
		}
		fmt.Fprintf(&b, "| %s | %s | %.6g | %d | %s | %.4f | %s |\n",
			f.Observation.Name, f.Observation.Category, f.Observation.Value,
			s.N, single, s.Quality(), doubleCol)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped (domain errors): %s\n", strings.Join(result.Skipped, ", "))
	}
	return b.String()
}
