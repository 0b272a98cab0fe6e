package ports

import (
	"context"

	"golattice/domain/core"
	"golattice/domain/lattice"
	"golattice/domain/significance"
)

// StudyRequest describes one full resonance study: fit every catalogue
// observation, estimate the baseline, evaluate significance.
type StudyRequest struct {
	Search    lattice.SearchConfig `json:"search"`
	Mode      lattice.Mode         `json:"mode"`
	Threshold float64              `json:"threshold"`
	// AltRate enables the Bayes factor when non-zero (see significance.Config).
	AltRate float64 `json:"alt_rate,omitempty"`

	// Baseline sampling parameters.
	Samples int     `json:"samples"`
	LogMin  float64 `json:"log_min"`
	LogMax  float64 `json:"log_max"`
	Seed    int64   `json:"seed"`
	Workers int     `json:"workers,omitempty"`

	// ContinueOnError skips observations that fail to fit (e.g. a
	// non-positive value slipped into the catalogue) instead of aborting
	// the batch. Skipped names are reported on the result.
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

// StudyResult is the complete, immutable output of one study run.
type StudyResult struct {
	RunID     core.RunID               `json:"run_id"`
	Fits      []lattice.ObservationFit `json:"fits"`
	Skipped   []string                 `json:"skipped,omitempty"`
	Baseline  BaselineEstimate         `json:"baseline"`
	Report    significance.Report      `json:"report"`
	Mode      lattice.Mode             `json:"mode"`
	Search    lattice.SearchConfig     `json:"search"`
	Seed      int64                    `json:"seed"`
	RuntimeMs int64                    `json:"runtime_ms"`
	CreatedAt core.Timestamp           `json:"created_at"`
}

// ReportRepository archives study runs. The core never requires one; it is
// an optional collaborator of the HTTP surface and CLI.
type ReportRepository interface {
	Save(ctx context.Context, result *StudyResult) error
	Get(ctx context.Context, id core.RunID) (*StudyResult, error)
	ListRecent(ctx context.Context, limit int) ([]*StudyResult, error)
}

// ReportExporter writes a study run to an external document format.
type ReportExporter interface {
	Export(result *StudyResult, path string) error
}
