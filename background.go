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
	"math/rand"
)

// StateConfig describes the size of a synthetic background state.
type StateConfig struct {
	Points int // horizontal points, including halo
	Owned  int // owned horizontal points
	Levels int // full levels; half-level fields get one more
	Bins   int // regression bins; zero means no interpolation weights
}

// Check returns an error if the configuration cannot describe a state.
func (c StateConfig) Check() error {
	switch {
	case c.Points < 1:
		return fmt.Errorf("vader: state needs at least one point; got %d", c.Points)
	case c.Owned < 0 || c.Owned > c.Points:
		return fmt.Errorf("vader: owned points (%d) must be between 0 and %d", c.Owned, c.Points)
	case c.Levels < 1:
		return fmt.Errorf("vader: state needs at least one level; got %d", c.Levels)
	case c.Bins < 0:
		return fmt.Errorf("vader: number of bins must not be negative; got %d", c.Bins)
	}
	return nil
}

// scaleHeight is the pressure scale height of the synthetic atmosphere [m].
const scaleHeight = 8000.

// RandomState creates a physically plausible background state holding
// every field that the recipes read under their default names:
// heights increase monotonically with level, pressure decreases
// with height, exner is consistent with pressure and the regression
// weights and matrices are random. The state uses the default
// physical constants.
func RandomState(c StateConfig, rng *rand.Rand) (*Fields, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	np, nl := c.Points, c.Levels
	fs := NewFields(c.Owned)
	hl := fs.Add("height_levels", np, nl+1)
	h := fs.Add("height", np, nl)
	pl := fs.Add("air_pressure_levels", np, nl+1)
	fs.Add("air_pressure", np, nl)
	hp := fs.Add("hydrostatic_pressure_levels", np, nl+1)
	fs.Add("hydrostatic_exner_levels", np, nl+1)
	up := fs.Add("unbalanced_pressure_levels", np, nl+1)
	gp := fs.Add("geostrophic_pressure_levels", np, nl+1)
	t := fs.Add("air_temperature", np, nl)
	u := fs.Add("eastward_wind", np, nl)
	v := fs.Add("northward_wind", np, nl)
	for _, n := range []string{"surface_pressure", "surface_temperature", "uwind_at_10m", "vwind_at_10m"} {
		fs.Add(n, np, 1)
	}

	p0 := DefaultConstants.P0
	for n := 0; n < np; n++ {
		hlc, hc, plc := hl.Column(n), h.Column(n), pl.Column(n)
		hlc[0] = 10 * rng.Float64()
		for l := 0; l < nl; l++ {
			hlc[l+1] = hlc[l] + 100 + 500*rng.Float64()
			hc[l] = hlc[l] + (0.1+0.8*rng.Float64())*(hlc[l+1]-hlc[l])
		}
		ps := p0 * (0.95 + 0.1*rng.Float64())
		for l, z := range hlc {
			plc[l] = ps * math.Exp(-z/scaleHeight)
		}
		copy(hp.Column(n), plc)
		gpc, upc := gp.Column(n), up.Column(n)
		for l := range gpc {
			gpc[l] = 0.1 * plc[l] * (2*rng.Float64() - 1)
			upc[l] = plc[l] - gpc[l]
		}
		tc, uc, vc := t.Column(n), u.Column(n), v.Column(n)
		for l := range tc {
			tc[l] = 288.15 - 0.0065*hc[l] + 2*rng.Float64()
			uc[l] = 20 * (2*rng.Float64() - 1)
			vc[l] = 20 * (2*rng.Float64() - 1)
		}
	}

	// Derived fields come from the nonlinear recipes.
	for _, name := range []string{AirPressureName, HydrostaticExnerName,
		SurfaceAirPressureName, SurfaceTemperatureName, SurfaceWindName} {
		r, err := NewRecipe(name, nil)
		if err != nil {
			return nil, err
		}
		if err = r.(Nonlinear).Compute(fs); err != nil {
			return nil, err
		}
	}

	if c.Bins > 0 {
		w := fs.Add("interpolation_weights", np, c.Bins)
		for i := range w.Elements {
			w.Elements[i] = rng.Float64()
		}
		m := fs.Add("vertical_regression_matrices", c.Bins*(nl+1), nl+1)
		for i := range m.Elements {
			m.Elements[i] = rng.Float64() - 0.5
		}
	}
	fs.ClearDirty()
	return fs, nil
}

// RegressionFields are the static fields that describe the binned
// vertical regression; they belong to the background state only.
var RegressionFields = []string{"interpolation_weights", "vertical_regression_matrices"}

// IncrementTemplate returns a zeroed store with the same fields and
// shapes as state, except for the regression fields.
func IncrementTemplate(state *Fields) (*Fields, error) {
	var names []string
	for _, n := range state.Names() {
		if n != RegressionFields[0] && n != RegressionFields[1] {
			names = append(names, n)
		}
	}
	return ZerosLike(state, names...)
}
