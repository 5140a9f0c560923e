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
	"math"
)

// HydrostaticExner relates hydrostatic exner to hydrostatic pressure,
// π = (p/p0)^κ with κ = Rd/Cp. Its tangent-linear operator is
// π' = κ π p' / p, which is inverted algebraically.
type HydrostaticExner struct {
	Exner    string // hydrostatic exner at half levels [-]
	Pressure string // hydrostatic pressure at half levels [Pa]

	Constants Constants
}

// NewHydrostaticExner configures a HydrostaticExner recipe. Field names
// may be overridden with the keys "hydrostatic_exner_levels" and
// "hydrostatic_pressure_levels", and the constants with "Rd", "Cp" and
// "P0".
func NewHydrostaticExner(p Params) (*HydrostaticExner, error) {
	n, err := fieldNames(p, "hydrostatic_exner_levels", "hydrostatic_pressure_levels")
	if err != nil {
		return nil, err
	}
	if err = checkDistinct(n...); err != nil {
		return nil, err
	}
	c := DefaultConstants
	if c.Rd, err = p.float64Or("Rd", c.Rd); err != nil {
		return nil, err
	}
	if c.Cp, err = p.float64Or("Cp", c.Cp); err != nil {
		return nil, err
	}
	if c.P0, err = p.float64Or("P0", c.P0); err != nil {
		return nil, err
	}
	if !(c.Cp != 0 && c.Rd != 0 && c.P0 != 0) {
		return nil, fmt.Errorf("Rd, Cp and P0 must be nonzero; got %g, %g and %g", c.Rd, c.Cp, c.P0)
	}
	return &HydrostaticExner{Exner: n[0], Pressure: n[1], Constants: c}, nil
}

// Name implements Recipe.
func (e *HydrostaticExner) Name() string { return HydrostaticExnerName }

// Ingredients implements Recipe.
func (e *HydrostaticExner) Ingredients() []string { return []string{e.Pressure} }

// Products implements Recipe.
func (e *HydrostaticExner) Products() []string { return []string{e.Exner} }

// InverseProducts implements Inverse.
func (e *HydrostaticExner) InverseProducts() []string { return []string{e.Pressure} }

// fields returns the background exner and pressure from state and the
// exner and pressure perturbations from fs.
func (e *HydrostaticExner) fields(fs, state FieldSet) (exnerBG, pBG, exner, p *Field, err error) {
	bg, err := getFields(state, e.Exner, e.Pressure)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pert, err := getFields(fs, e.Exner, e.Pressure)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	exner, p = pert[0], pert[1]
	if err = checkShapes(p.Points(), p.Levels(), bg[0], bg[1], exner); err != nil {
		return nil, nil, nil, nil, err
	}
	return bg[0], bg[1], exner, p, nil
}

// Compute implements Nonlinear.
func (e *HydrostaticExner) Compute(state FieldSet) error {
	f, err := getFields(state, e.Exner, e.Pressure)
	if err != nil {
		return recipeError(e.Name(), err)
	}
	exner, p := f[0], f[1]
	if err = checkShapes(p.Points(), p.Levels(), exner); err != nil {
		return recipeError(e.Name(), err)
	}
	κ, p0 := e.Constants.Kappa(), e.Constants.P0
	forEachPoint(p.Points(), pointFunc(func(n int) {
		ec, pc := exner.Column(n), p.Column(n)
		for l, v := range pc {
			ec[l] = math.Pow(v/p0, κ)
		}
	}))
	state.SetDirty(e.Exner)
	return nil
}

// TL implements Linear.
func (e *HydrostaticExner) TL(inc, state FieldSet) error {
	exnerBG, pBG, exner, p, err := e.fields(inc, state)
	if err != nil {
		return recipeError(e.Name(), err)
	}
	κ := e.Constants.Kappa()
	forEachPoint(p.Points(), pointFunc(func(n int) {
		ebg, pbg, ec, pc := exnerBG.Column(n), pBG.Column(n), exner.Column(n), p.Column(n)
		for l := range ec {
			ec[l] = pc[l] * κ * ebg[l] / pbg[l]
		}
	}))
	inc.SetDirty(e.Exner)
	return nil
}

// AD implements Linear.
func (e *HydrostaticExner) AD(hat, state FieldSet) error {
	exnerBG, pBG, exnerHat, pHat, err := e.fields(hat, state)
	if err != nil {
		return recipeError(e.Name(), err)
	}
	κ := e.Constants.Kappa()
	nlevels := pHat.Levels()
	forEachPoint(pHat.Points(), func() func(n int) {
		fac := make([]float64, nlevels)
		return func(n int) {
			ebg, pbg := exnerBG.Column(n), pBG.Column(n)
			for l := range fac {
				fac[l] = κ * ebg[l] / pbg[l]
			}
			adjointOfScale(pHat.Column(n), exnerHat.Column(n), fac)
		}
	})
	setDirty(hat, e.Pressure, e.Exner)
	return nil
}

// InverseTL implements Inverse.
func (e *HydrostaticExner) InverseTL(inc, state FieldSet) error {
	exnerBG, pBG, exner, p, err := e.fields(inc, state)
	if err != nil {
		return recipeError(e.Name(), err)
	}
	κ := e.Constants.Kappa()
	forEachPoint(p.Points(), pointFunc(func(n int) {
		ebg, pbg, ec, pc := exnerBG.Column(n), pBG.Column(n), exner.Column(n), p.Column(n)
		for l := range pc {
			pc[l] = ec[l] * pbg[l] / (κ * ebg[l])
		}
	}))
	inc.SetDirty(e.Pressure)
	return nil
}
