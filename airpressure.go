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

import "fmt"

// AirPressure interpolates air pressure linearly in height from half
// (interface) levels to full levels. The tangent-linear and adjoint
// operators hold the heights fixed at their background values.
type AirPressure struct {
	HeightLevels   string // height at half levels [m]
	Height         string // height at full levels [m]
	PressureLevels string // air pressure at half levels [Pa]
	Pressure       string // air pressure at full levels [Pa]
}

// NewAirPressure configures an AirPressure recipe. Field names may be
// overridden with the keys "height_levels", "height",
// "air_pressure_levels" and "air_pressure".
func NewAirPressure(p Params) (*AirPressure, error) {
	n, err := fieldNames(p, "height_levels", "height", "air_pressure_levels", "air_pressure")
	if err != nil {
		return nil, err
	}
	if n[2] == n[3] {
		return nil, fmt.Errorf("half- and full-level pressure must be different fields but both are %q", n[2])
	}
	return &AirPressure{HeightLevels: n[0], Height: n[1], PressureLevels: n[2], Pressure: n[3]}, nil
}

// Name implements Recipe.
func (a *AirPressure) Name() string { return AirPressureName }

// Ingredients implements Recipe.
func (a *AirPressure) Ingredients() []string { return []string{a.PressureLevels} }

// Products implements Recipe.
func (a *AirPressure) Products() []string { return []string{a.Pressure} }

// fields returns the height fields from state and the pressure fields
// from fs after checking that they are staggered consistently.
func (a *AirPressure) fields(fs, state FieldSet) (hl, h, p, pbar *Field, err error) {
	heights, err := getFields(state, a.HeightLevels, a.Height)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pressures, err := getFields(fs, a.PressureLevels, a.Pressure)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	hl, h, p, pbar = heights[0], heights[1], pressures[0], pressures[1]
	npoints, nlevels := pbar.Points(), pbar.Levels()
	if err = checkShapes(npoints, nlevels, h); err != nil {
		return nil, nil, nil, nil, err
	}
	if err = checkShapes(npoints, nlevels+1, hl, p); err != nil {
		return nil, nil, nil, nil, err
	}
	return hl, h, p, pbar, nil
}

// alpha returns the interpolation weight of the upper half level for
// full level l.
func alpha(hl, h []float64, l int) float64 {
	return (h[l] - hl[l]) / (hl[l+1] - hl[l])
}

func interpolatePressure(hl, h, p, pbar *Field) {
	forEachPoint(pbar.Points(), pointFunc(func(n int) {
		hlc, hc, pc, pbarc := hl.Column(n), h.Column(n), p.Column(n), pbar.Column(n)
		for l := range pbarc {
			α := alpha(hlc, hc, l)
			pbarc[l] = (1-α)*pc[l] + α*pc[l+1]
		}
	}))
}

// Compute implements Nonlinear.
func (a *AirPressure) Compute(state FieldSet) error {
	hl, h, p, pbar, err := a.fields(state, state)
	if err != nil {
		return recipeError(a.Name(), err)
	}
	interpolatePressure(hl, h, p, pbar)
	state.SetDirty(a.Pressure)
	return nil
}

// TL implements Linear.
func (a *AirPressure) TL(inc, state FieldSet) error {
	hl, h, p, pbar, err := a.fields(inc, state)
	if err != nil {
		return recipeError(a.Name(), err)
	}
	interpolatePressure(hl, h, p, pbar)
	inc.SetDirty(a.Pressure)
	return nil
}

// AD implements Linear.
func (a *AirPressure) AD(hat, state FieldSet) error {
	hl, h, pHat, pbarHat, err := a.fields(hat, state)
	if err != nil {
		return recipeError(a.Name(), err)
	}
	forEachPoint(pbarHat.Points(), pointFunc(func(n int) {
		hlc, hc, pc, pbarc := hl.Column(n), h.Column(n), pHat.Column(n), pbarHat.Column(n)
		for l := range pbarc {
			α := alpha(hlc, hc, l)
			pc[l] += (1 - α) * pbarc[l]
			pc[l+1] += α * pbarc[l]
			pbarc[l] = 0
		}
	}))
	setDirty(hat, a.PressureLevels, a.Pressure)
	return nil
}
