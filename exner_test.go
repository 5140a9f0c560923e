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
	"math"
	"math/rand"
	"testing"
)

func exnerState() *Fields {
	fs := NewFields(1)
	setField(fs, "hydrostatic_pressure_levels", [][]float64{{100000, 80000, 50000}})
	fs.Add("hydrostatic_exner_levels", 1, 3)
	return fs
}

func TestHydrostaticExner(t *testing.T) {
	e, err := NewHydrostaticExner(nil)
	if err != nil {
		t.Fatal(err)
	}
	κ := DefaultConstants.Kappa()
	state := exnerState()
	if err := e.Compute(state); err != nil {
		t.Fatal(err)
	}
	exner, _ := state.Field("hydrostatic_exner_levels")
	checkField(t, exner, [][]float64{{1, math.Pow(0.8, κ), math.Pow(0.5, κ)}}, testTolerance)

	t.Run("tangent linear", func(t *testing.T) {
		inc := NewFields(1)
		setField(inc, "hydrostatic_pressure_levels", [][]float64{{1000, -500, 0}})
		inc.Add("hydrostatic_exner_levels", 1, 3)
		if err := e.TL(inc, state); err != nil {
			t.Fatal(err)
		}
		out, _ := inc.Field("hydrostatic_exner_levels")
		checkField(t, out, [][]float64{{
			1000 * κ / 100000,
			-500 * κ * math.Pow(0.8, κ) / 80000,
			0,
		}}, testTolerance)
		if !inc.Dirty("hydrostatic_exner_levels") {
			t.Error("exner increment should be marked dirty")
		}
	})

	t.Run("adjoint", func(t *testing.T) {
		hat := NewFields(1)
		setField(hat, "hydrostatic_pressure_levels", [][]float64{{1, 1, 1}})
		setField(hat, "hydrostatic_exner_levels", [][]float64{{1, 2, 0}})
		if err := e.AD(hat, state); err != nil {
			t.Fatal(err)
		}
		pHat, _ := hat.Field("hydrostatic_pressure_levels")
		checkField(t, pHat, [][]float64{{
			1 + κ/100000,
			1 + 2*κ*math.Pow(0.8, κ)/80000,
			1,
		}}, testTolerance)
		if err := CheckZeroed(hat, "hydrostatic_exner_levels"); err != nil {
			t.Error(err)
		}
	})

	t.Run("inverse", func(t *testing.T) {
		inc := NewFields(1)
		inc.Add("hydrostatic_pressure_levels", 1, 3)
		setField(inc, "hydrostatic_exner_levels", [][]float64{{κ / 100, 0, 1}})
		if err := e.InverseTL(inc, state); err != nil {
			t.Fatal(err)
		}
		p, _ := inc.Field("hydrostatic_pressure_levels")
		checkField(t, p, [][]float64{{1000, 0, 50000 / (κ * math.Pow(0.5, κ))}}, testTolerance)
		if !inc.Dirty("hydrostatic_pressure_levels") {
			t.Error("pressure increment should be marked dirty")
		}
	})
}

func TestHydrostaticExnerParams(t *testing.T) {
	e, err := NewHydrostaticExner(Params{"Rd": 2, "Cp": 8.0, "hydrostatic_exner_levels": "pi"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Constants.Kappa() != 0.25 {
		t.Errorf("kappa: have %g, want 0.25", e.Constants.Kappa())
	}
	if e.Exner != "pi" || e.Pressure != "hydrostatic_pressure_levels" {
		t.Errorf("field names: have %q and %q", e.Exner, e.Pressure)
	}
	if _, err = NewHydrostaticExner(Params{"Cp": "1005"}); err == nil {
		t.Error("a string constant should be rejected")
	}
	if _, err = NewHydrostaticExner(Params{"Cp": 0}); err == nil {
		t.Error("a zero constant should be rejected")
	}
	if _, err = NewHydrostaticExner(Params{"hydrostatic_exner_levels": "hydrostatic_pressure_levels"}); err == nil {
		t.Error("aliased exner and pressure fields should be rejected")
	}
}

func TestHydrostaticExnerShape(t *testing.T) {
	e, _ := NewHydrostaticExner(nil)
	state := exnerState()
	inc := NewFields(1)
	inc.Add("hydrostatic_pressure_levels", 1, 2)
	inc.Add("hydrostatic_exner_levels", 1, 2)
	if err := e.TL(inc, state); err == nil {
		t.Error("level mismatch with the background should fail")
	}
	if err := e.Compute(NewFields(1)); err == nil {
		t.Error("missing fields should fail")
	}
}

func TestHydrostaticExnerAdjoint(t *testing.T) {
	e, _ := NewHydrostaticExner(nil)
	state, template := testState(t, StateConfig{Points: 100, Owned: 90, Levels: 30}, 4)
	rng := rand.New(rand.NewSource(5))
	res, err := AdjointTest(e, state, template, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.RelativeError() > adjointTolerance {
		t.Error(res)
	}
	roundTrip, err := InverseTest(e, state, template, rng)
	if err != nil {
		t.Fatal(err)
	}
	if roundTrip > adjointTolerance {
		t.Errorf("round trip error %g", roundTrip)
	}
}

// The inverse followed by the tangent-linear operator should also
// recover the exner increment.
func TestHydrostaticExnerInverseFirst(t *testing.T) {
	e, _ := NewHydrostaticExner(nil)
	state, template := testState(t, StateConfig{Points: 20, Owned: 20, Levels: 10}, 6)
	inc := template.Copy()
	if err := Randomize(inc, rand.New(rand.NewSource(7)), e.Exner); err != nil {
		t.Fatal(err)
	}
	want, _ := inc.Field(e.Exner)
	want0 := make([]float64, len(want.Elements))
	copy(want0, want.Elements)
	if err := e.InverseTL(inc, state); err != nil {
		t.Fatal(err)
	}
	if err := e.TL(inc, state); err != nil {
		t.Fatal(err)
	}
	have, _ := inc.Field(e.Exner)
	for i, w := range want0 {
		if different(have.Elements[i], w, 1.e-12) {
			t.Errorf("element %d: have %g, want %g", i, have.Elements[i], w)
		}
	}
}
