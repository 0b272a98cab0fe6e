// Package excel exports study runs as xlsx workbooks: one sheet of
// per-observation fits, one sheet with the significance summary.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"golattice/ports"
)

// ReportWriter implements ports.ReportExporter for xlsx output.
type ReportWriter struct{}

// NewReportWriter creates an xlsx report exporter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

const (
	fitsSheet    = "Fits"
	summarySheet = "Significance"
)

// Export writes the study run to path.
func (w *ReportWriter) Export(result *ports.StudyResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeFits(f, result); err != nil {
		return err
	}
	if err := w.writeSummary(f, result); err != nil {
		return err
	}
	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (w *ReportWriter) writeFits(f *excelize.File, result *ports.StudyResult) error {
	if _, err := f.NewSheet(fitsSheet); err != nil {
		return err
	}

	headers := []interface{}{
		"name", "category", "value", "n", "delta", "exact",
		"m", "sign", "c", "c_deviation",
		"m1", "m2", "sign1", "sign2", "residual",
	}
	if err := writeRow(f, fitsSheet, 1, headers); err != nil {
		return err
	}

	for i, fit := range result.Fits {
		s, d := fit.Single, fit.Double
		row := []interface{}{
			fit.Observation.Name, fit.Observation.Category, fit.Observation.Value,
			s.N, s.Delta, s.Exact,
			s.M, s.Sign, s.C, s.CDeviation,
			d.M1, d.M2, d.Sign1, d.Sign2, d.Residual,
		}
		if err := writeRow(f, fitsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, result *ports.StudyResult) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	r := result.Report
	rows := [][]interface{}{
		{"run_id", result.RunID.String()},
		{"mode", string(result.Mode)},
		{"base", result.Search.Base},
		{"m_max", result.Search.MMax},
		{"seed", result.Seed},
		{"threshold", r.Threshold},
		{"total", r.Total},
		{"successes", r.Successes},
		{"baseline_rate", result.Baseline.Rate},
		{"baseline_std_err", result.Baseline.StdErr},
		{"baseline_log_min", result.Baseline.LogMin},
		{"baseline_log_max", result.Baseline.LogMax},
		{"baseline_samples", result.Baseline.Samples},
		{"expected", r.Expected},
		{"p_value", r.PValue},
		{"z_score", r.ZScore},
		{"bayes_factor", r.BayesFactor},
		{"alt_rate", r.AltRate},
		{"runtime_ms", result.RuntimeMs},
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
