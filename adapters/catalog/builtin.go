// Package catalog ships the built-in table of dimensionless physical ratios
// used by the resonance studies. The table is plain data behind
// ports.CatalogPort: Observations returns a fresh copy on every call and no
// package-level state is ever mutated.
package catalog

import (
	"context"

	"golattice/domain/lattice"
)

// Categories used for grouping in reports; the search itself ignores them.
const (
	CategoryLepton    = "lepton"
	CategoryQuark     = "quark"
	CategoryBoson     = "boson"
	CategoryComposite = "composite"
	CategoryCoupling  = "coupling"
	CategoryHierarchy = "hierarchy"
)

// builtinRatios lists mass ratios to the electron plus the dimensionless
// couplings and hierarchy ratios. Quark ratios derive from PDG masses over
// m_e = 0.511 MeV.
var builtinRatios = []lattice.Observation{
	{Name: "m_proton/m_electron", Value: 1836.15267343, Category: CategoryComposite},
	{Name: "m_muon/m_electron", Value: 206.77, Category: CategoryLepton},
	{Name: "m_tau/m_electron", Value: 3477.48, Category: CategoryLepton},
	{Name: "m_up/m_electron", Value: 4.227, Category: CategoryQuark},
	{Name: "m_down/m_electron", Value: 9.139, Category: CategoryQuark},
	{Name: "m_strange/m_electron", Value: 182.0, Category: CategoryQuark},
	{Name: "m_charm/m_electron", Value: 2485.3, Category: CategoryQuark},
	{Name: "m_bottom/m_electron", Value: 8180.0, Category: CategoryQuark},
	{Name: "m_top/m_electron", Value: 338960.0, Category: CategoryQuark},
	{Name: "m_W/m_electron", Value: 157410.0, Category: CategoryBoson},
	{Name: "m_Z/m_electron", Value: 178450.0, Category: CategoryBoson},
	{Name: "m_Higgs/m_electron", Value: 244620.0, Category: CategoryBoson},
	{Name: "1/alpha_EM", Value: 137.035999084, Category: CategoryCoupling},
	{Name: "M_Planck/M_GUT", Value: 6.1e2, Category: CategoryHierarchy},
	{Name: "M_GUT/M_Weak", Value: 8.13e13, Category: CategoryHierarchy},
	{Name: "M_Planck/M_Weak", Value: 4.96e16, Category: CategoryHierarchy},
}

// Builtin implements ports.CatalogPort over the built-in ratio table.
type Builtin struct{}

// NewBuiltin creates the built-in catalogue.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// Observations returns a fresh copy of the ratio table.
func (b *Builtin) Observations(ctx context.Context) ([]lattice.Observation, error) {
	out := make([]lattice.Observation, len(builtinRatios))
	copy(out, builtinRatios)
	return out, nil
}

// Static wraps a caller-supplied observation list as a CatalogPort.
type Static struct {
	observations []lattice.Observation
}

// NewStatic copies the given observations into a catalogue.
func NewStatic(observations []lattice.Observation) *Static {
	out := make([]lattice.Observation, len(observations))
	copy(out, observations)
	return &Static{observations: out}
}

// Observations returns a fresh copy of the wrapped list.
func (s *Static) Observations(ctx context.Context) ([]lattice.Observation, error) {
	out := make([]lattice.Observation, len(s.observations))
	copy(out, s.observations)
	return out, nil
}
