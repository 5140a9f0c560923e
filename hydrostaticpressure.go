/*
Copyright © 2024 the vader authors.
This file is part of vader.

vader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

vader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with vader.  If not, see <http://www.gnu.org/licenses/>.
*/

package vader

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// HydrostaticPressure couples geostrophic and hydrostatic pressure
// through binned vertical regression:
//
//	hP'[n,l] = uP'[n,l] + Σ_b w[n,b] Σ_l2 M[b*L+l, l2] gP'[n,l2]
//
// where uP' is the unbalanced pressure increment, gP' the geostrophic
// pressure increment, w the per-point bin interpolation weights and M
// the stacked per-bin regression matrices. When the state holds no
// interpolation weights the regression term is dropped and hydrostatic
// pressure is an exact copy of unbalanced pressure.
//
// The tangent-linear operator and its inverse accumulate the bins in
// ascending order; the adjoint accumulates them in descending order.
type HydrostaticPressure struct {
	Hydrostatic string // hydrostatic pressure at half levels [Pa]
	Unbalanced  string // unbalanced pressure at half levels [Pa]
	Geostrophic string // geostrophic pressure at half levels [Pa]

	Weights  string // interpolation weights, points × bins
	Matrices string // vertical regression matrices, (bins × levels) × levels
}

// NewHydrostaticPressure configures a HydrostaticPressure recipe. Field
// names may be overridden with the keys "hydrostatic_pressure_levels",
// "unbalanced_pressure_levels", "geostrophic_pressure_levels",
// "interpolation_weights" and "vertical_regression_matrices".
func NewHydrostaticPressure(p Params) (*HydrostaticPressure, error) {
	n, err := fieldNames(p, "hydrostatic_pressure_levels", "unbalanced_pressure_levels",
		"geostrophic_pressure_levels", "interpolation_weights", "vertical_regression_matrices")
	if err != nil {
		return nil, err
	}
	if n[0] == n[1] || n[0] == n[2] || n[1] == n[2] {
		return nil, fmt.Errorf("hydrostatic, unbalanced and geostrophic pressure must be "+
			"different fields; got %q, %q and %q", n[0], n[1], n[2])
	}
	return &HydrostaticPressure{
		Hydrostatic: n[0],
		Unbalanced:  n[1],
		Geostrophic: n[2],
		Weights:     n[3],
		Matrices:    n[4],
	}, nil
}

// Name implements Recipe.
func (h *HydrostaticPressure) Name() string { return HydrostaticPressureName }

// Ingredients implements Recipe.
func (h *HydrostaticPressure) Ingredients() []string {
	return []string{h.Geostrophic, h.Unbalanced}
}

// Products implements Recipe.
func (h *HydrostaticPressure) Products() []string { return []string{h.Hydrostatic} }

// InverseProducts implements Inverse.
func (h *HydrostaticPressure) InverseProducts() []string { return []string{h.Unbalanced} }

// regression holds the binned regression operator for one call.
type regression struct {
	weights *Field
	blocks  []mat.Matrix // one levels × levels matrix per bin
	levels  int
}

// newRegression checks the regression fields in state against the
// number of points and levels of the pressure fields. It returns nil
// if state has no interpolation weights.
func (h *HydrostaticPressure) newRegression(state FieldSet, npoints, nlevels int) (*regression, error) {
	if !state.Has(h.Weights) {
		return nil, nil
	}
	f, err := getFields(state, h.Weights, h.Matrices)
	if err != nil {
		return nil, err
	}
	w, m := f[0], f[1]
	if nlevels == 0 {
		return nil, fmt.Errorf("pressure fields have no levels")
	}
	if m.Levels() != nlevels {
		return nil, fmt.Errorf("field %q has %d columns but the pressure fields have %d levels",
			m.Name, m.Levels(), nlevels)
	}
	if m.Points() == 0 || m.Points()%nlevels != 0 {
		return nil, fmt.Errorf("field %q has %d rows, which is not a positive multiple of %d levels",
			m.Name, m.Points(), nlevels)
	}
	nbins := m.Points() / nlevels
	if w.Levels() != nbins {
		return nil, fmt.Errorf("field %q has %d bins but %q has %d", w.Name, w.Levels(), m.Name, nbins)
	}
	if w.Points() < npoints {
		return nil, fmt.Errorf("field %q has %d points but the pressure fields have %d",
			w.Name, w.Points(), npoints)
	}
	all := mat.NewDense(m.Points(), nlevels, m.Elements)
	r := &regression{weights: w, blocks: make([]mat.Matrix, nbins), levels: nlevels}
	for b := range r.blocks {
		r.blocks[b] = all.Slice(b*nlevels, (b+1)*nlevels, 0, nlevels)
	}
	return r, nil
}

// addTo adds scale × Σ_b w[n,b] M_b g to dst, with the bins in
// ascending order. tmp is scratch space of length levels.
func (r *regression) addTo(dst *mat.VecDense, scale float64, g mat.Vector, n int, tmp *mat.VecDense) {
	w := r.weights.Column(n)
	for b, m := range r.blocks {
		tmp.MulVec(m, g)
		dst.AddScaledVec(dst, scale*w[b], tmp)
	}
}

// addTransposeTo adds Σ_b w[n,b] M_bᵀ hHat to gHat, with the bins in
// descending order. tmp is scratch space of length levels.
func (r *regression) addTransposeTo(gHat *mat.VecDense, hHat mat.Vector, n int, tmp *mat.VecDense) {
	w := r.weights.Column(n)
	for b := len(r.blocks) - 1; b >= 0; b-- {
		tmp.MulVec(r.blocks[b].T(), hHat)
		gHat.AddScaledVec(gHat, w[b], tmp)
	}
}

// fields returns the pressure fields in fs and the regression operator
// in state. The geostrophic field is only looked up if the regression
// operator is present.
func (h *HydrostaticPressure) fields(fs, state FieldSet) (hp, up, gp *Field, r *regression, err error) {
	f, err := getFields(fs, h.Hydrostatic, h.Unbalanced)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	hp, up = f[0], f[1]
	npoints, nlevels := up.Points(), up.Levels()
	if err = checkShapes(npoints, nlevels, hp); err != nil {
		return nil, nil, nil, nil, err
	}
	r, err = h.newRegression(state, npoints, nlevels)
	if err != nil || r == nil {
		return hp, up, nil, nil, err
	}
	if gp, err = fs.Field(h.Geostrophic); err != nil {
		return nil, nil, nil, nil, err
	}
	if err = checkShapes(npoints, nlevels, gp); err != nil {
		return nil, nil, nil, nil, err
	}
	return hp, up, gp, r, nil
}

// TL implements Linear.
func (h *HydrostaticPressure) TL(inc, state FieldSet) error {
	hp, up, gp, r, err := h.fields(inc, state)
	if err != nil {
		return recipeError(h.Name(), err)
	}
	if r == nil {
		forEachPoint(hp.Points(), pointFunc(func(n int) {
			copy(hp.Column(n), up.Column(n))
		}))
		inc.SetDirty(h.Hydrostatic)
		return nil
	}
	forEachPoint(hp.Points(), func() func(n int) {
		tmp := mat.NewVecDense(r.levels, nil)
		return func(n int) {
			hc := hp.Column(n)
			copy(hc, up.Column(n))
			r.addTo(mat.NewVecDense(r.levels, hc), 1, mat.NewVecDense(r.levels, gp.Column(n)), n, tmp)
		}
	})
	inc.SetDirty(h.Hydrostatic)
	return nil
}

// AD implements Linear.
func (h *HydrostaticPressure) AD(hat, state FieldSet) error {
	hpHat, upHat, gpHat, r, err := h.fields(hat, state)
	if err != nil {
		return recipeError(h.Name(), err)
	}
	if r == nil {
		forEachPoint(hpHat.Points(), pointFunc(func(n int) {
			adjointOfCopy(upHat.Column(n), hpHat.Column(n))
		}))
		setDirty(hat, h.Unbalanced, h.Hydrostatic)
		return nil
	}
	forEachPoint(hpHat.Points(), func() func(n int) {
		tmp := mat.NewVecDense(r.levels, nil)
		return func(n int) {
			hc := hpHat.Column(n)
			r.addTransposeTo(mat.NewVecDense(r.levels, gpHat.Column(n)), mat.NewVecDense(r.levels, hc), n, tmp)
			adjointOfCopy(upHat.Column(n), hc)
		}
	})
	setDirty(hat, h.Geostrophic, h.Unbalanced, h.Hydrostatic)
	return nil
}

// InverseTL implements Inverse.
func (h *HydrostaticPressure) InverseTL(inc, state FieldSet) error {
	hp, up, gp, r, err := h.fields(inc, state)
	if err != nil {
		return recipeError(h.Name(), err)
	}
	if r == nil {
		forEachPoint(up.Points(), pointFunc(func(n int) {
			copy(up.Column(n), hp.Column(n))
		}))
		inc.SetDirty(h.Unbalanced)
		return nil
	}
	forEachPoint(up.Points(), func() func(n int) {
		tmp := mat.NewVecDense(r.levels, nil)
		return func(n int) {
			uc := up.Column(n)
			copy(uc, hp.Column(n))
			r.addTo(mat.NewVecDense(r.levels, uc), -1, mat.NewVecDense(r.levels, gp.Column(n)), n, tmp)
		}
	})
	inc.SetDirty(h.Unbalanced)
	return nil
}
