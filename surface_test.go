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
	"math/rand"
	"testing"
)

func TestSurfaceTemperature(t *testing.T) {
	s, err := NewSurfaceTemperature(nil)
	if err != nil {
		t.Fatal(err)
	}
	state := NewFields(1)
	setField(state, "air_temperature", [][]float64{{288.15, 280, 270}})
	state.Add("surface_temperature", 1, 1)
	if err := s.Compute(state); err != nil {
		t.Fatal(err)
	}
	sfc, _ := state.Field("surface_temperature")
	checkField(t, sfc, [][]float64{{288.15}}, 0)
	if !state.Dirty("surface_temperature") {
		t.Error("surface temperature should be marked dirty")
	}

	hat := NewFields(1)
	hat.Add("air_temperature", 1, 3)
	setField(hat, "surface_temperature", [][]float64{{1}})
	if err := s.AD(hat, state); err != nil {
		t.Fatal(err)
	}
	tHat, _ := hat.Field("air_temperature")
	checkField(t, tHat, [][]float64{{1, 0, 0}}, 0)
	if err := CheckZeroed(hat, "surface_temperature"); err != nil {
		t.Error(err)
	}
	if !hat.Dirty("air_temperature") || !hat.Dirty("surface_temperature") {
		t.Error("adjoint fields should be marked dirty")
	}
}

func TestSurfaceWind(t *testing.T) {
	s, err := NewSurfaceWind(nil)
	if err != nil {
		t.Fatal(err)
	}
	inc := NewFields(2)
	setField(inc, "eastward_wind", [][]float64{{1, 2}, {3, 4}})
	setField(inc, "northward_wind", [][]float64{{-1, -2}, {-3, -4}})
	inc.Add("uwind_at_10m", 2, 1)
	inc.Add("vwind_at_10m", 2, 1)
	if err := s.TL(inc, nil); err != nil {
		t.Fatal(err)
	}
	u, _ := inc.Field("uwind_at_10m")
	v, _ := inc.Field("vwind_at_10m")
	checkField(t, u, [][]float64{{1}, {3}}, 0)
	checkField(t, v, [][]float64{{-1}, {-3}}, 0)

	// The adjoint accumulates into what is already there.
	if err := s.AD(inc, nil); err != nil {
		t.Fatal(err)
	}
	e, _ := inc.Field("eastward_wind")
	n, _ := inc.Field("northward_wind")
	checkField(t, e, [][]float64{{2, 2}, {6, 4}}, 0)
	checkField(t, n, [][]float64{{-2, -2}, {-6, -4}}, 0)
	if err := CheckZeroed(inc, "uwind_at_10m", "vwind_at_10m"); err != nil {
		t.Error(err)
	}
}

func TestSurfaceAirPressure(t *testing.T) {
	s, err := NewSurfaceAirPressure(Params{"surface_pressure": "ps"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != SurfaceAirPressureName {
		t.Errorf("name: have %q", s.Name())
	}
	state := NewFields(1)
	setField(state, "air_pressure_levels", [][]float64{{101325, 90000}})
	state.Add("ps", 1, 1)
	if err := s.Compute(state); err != nil {
		t.Fatal(err)
	}
	ps, _ := state.Field("ps")
	checkField(t, ps, [][]float64{{101325}}, 0)

	if _, err := NewSurfaceAirPressure(Params{"surface_pressure": "air_pressure_levels"}); err == nil {
		t.Error("a surface field aliasing its column should be rejected")
	}
}

// Aliasing across pairs would make the adjoint zero one pair's
// sensitivity after accumulating into it.
func TestSurfaceWindAliases(t *testing.T) {
	for _, p := range []Params{
		{"eastward_wind": "vwind_at_10m"},
		{"northward_wind": "eastward_wind"},
		{"uwind_at_10m": "vwind_at_10m"},
	} {
		if _, err := NewSurfaceWind(p); err == nil {
			t.Errorf("%v should be rejected", p)
		}
	}
	if _, err := NewSurfaceWind(Params{"eastward_wind": "u", "northward_wind": "v"}); err != nil {
		t.Error(err)
	}
}

func TestSurfaceErrors(t *testing.T) {
	s, _ := NewSurfaceTemperature(nil)
	for name, fs := range map[string]*Fields{
		"points": func() *Fields {
			fs := NewFields(1)
			fs.Add("air_temperature", 2, 3)
			fs.Add("surface_temperature", 1, 1)
			return fs
		}(),
		"no levels": func() *Fields {
			fs := NewFields(1)
			fs.Add("air_temperature", 1, 0)
			fs.Add("surface_temperature", 1, 1)
			return fs
		}(),
		"missing": func() *Fields {
			fs := NewFields(1)
			fs.Add("air_temperature", 1, 3)
			return fs
		}(),
	} {
		if err := s.TL(fs, nil); err == nil {
			t.Errorf("%s: TL should fail", name)
		}
		if err := s.AD(fs, nil); err == nil {
			t.Errorf("%s: AD should fail", name)
		}
	}
}

func TestSurfaceAdjoint(t *testing.T) {
	state, template := testState(t, StateConfig{Points: 40, Owned: 33, Levels: 9}, 15)
	for _, name := range []string{SurfaceAirPressureName, SurfaceTemperatureName, SurfaceWindName} {
		r, err := NewRecipe(name, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, err := AdjointTest(r.(Linear), state, template, rand.New(rand.NewSource(16)))
		if err != nil {
			t.Fatal(err)
		}
		if res.RelativeError() > adjointTolerance {
			t.Error(res)
		}
	}
}
