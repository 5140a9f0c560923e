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


package vaderutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lnashier/viper"
	vader "github.com/lo-y-wni/vader-sub001"
)

func TestStateConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Points", 10)
	cfg.Set("Owned", "8") // Strings come from environment variables.
	cfg.Set("Levels", int64(3))
	cfg.Set("Bins", 2)
	c, err := StateConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := vader.StateConfig{Points: 10, Owned: 8, Levels: 3, Bins: 2}
	if c != want {
		t.Errorf("have %+v, want %+v", c, want)
	}

	cfg.Set("Owned", 11)
	if _, err = StateConfig(cfg); err == nil {
		t.Error("more owned points than points should fail")
	}
	cfg.Set("Owned", "many")
	if _, err = StateConfig(cfg); err == nil {
		t.Error("a non-numeric value should fail")
	}
}

func TestRecipeParams(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("RecipeParams", `
[HydrostaticExner_A]
Cp = 1004.0
Rd = 287

[AirPressure_A]
air_pressure = "pbar"
`)
		p, err := RecipeParams(cfg)
		if err != nil {
			t.Fatal(err)
		}
		cp, err := p[vader.HydrostaticExnerName].Float64("Cp")
		if err != nil || cp != 1004 {
			t.Errorf("Cp: have %g, %v", cp, err)
		}
		rd, err := p[vader.HydrostaticExnerName].Float64("Rd")
		if err != nil || rd != 287 {
			t.Errorf("Rd: have %g, %v", rd, err)
		}
		if s, _ := p[vader.AirPressureName].String("air_pressure"); s != "pbar" {
			t.Errorf("air_pressure: have %q", s)
		}
	})
	t.Run("map", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("RecipeParams", map[string]interface{}{
			vader.SurfaceWindName: map[string]interface{}{"uwind_at_10m": "u10"},
		})
		p, err := RecipeParams(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if s, _ := p[vader.SurfaceWindName].String("uwind_at_10m"); s != "u10" {
			t.Errorf("uwind_at_10m: have %q", s)
		}
	})
	t.Run("empty", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("RecipeParams", "  ")
		p, err := RecipeParams(cfg)
		if err != nil || len(p) != 0 {
			t.Errorf("have %v, %v", p, err)
		}
	})
	for name, v := range map[string]interface{}{
		"unknown recipe": "[Nope_A]\nx = 1\n",
		"bad toml":       "[HydrostaticExner_A\n",
		"not a table":    "HydrostaticExner_A = 3\n",
	} {
		cfg := viper.New()
		cfg.Set("RecipeParams", v)
		if _, err := RecipeParams(cfg); err == nil {
			t.Errorf("%s should fail", name)
		}
	}
}

func TestRecipes(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Recipes", []interface{}{"AirPressure_A", " SurfaceWind_A"})
	cfg.Set("RecipeParams", "[AirPressure_A]\nair_pressure = \"pbar\"\n")
	r, err := Recipes(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, rr := range r {
		names = append(names, rr.Name())
	}
	if !reflect.DeepEqual(names, []string{vader.AirPressureName, vader.SurfaceWindName}) {
		t.Errorf("names: have %v", names)
	}
	if p := r[0].Products(); p[0] != "pbar" {
		t.Errorf("RecipeParams were not applied: products %v", p)
	}

	cfg.Set("Recipes", []string{"AirPressure_A", "Nope_A"})
	if _, err = Recipes(cfg); err == nil {
		t.Error("an unknown recipe should fail")
	}
	cfg.Set("Recipes", []string{})
	if _, err = Recipes(cfg); err == nil {
		t.Error("no recipes should fail")
	}
}

func TestCheckMode(t *testing.T) {
	for _, m := range []string{"tl", "AD", " ad "} {
		if _, err := checkMode(m); err != nil {
			t.Errorf("%q: %v", m, err)
		}
	}
	if _, err := checkMode("nl"); err == nil {
		t.Error("nl is not a valid mode")
	}
}

func TestCheckOutputFile(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("VADER_TEST_DIR", dir)
	f, err := checkOutputFile("${VADER_TEST_DIR}/out.ncf")
	if err != nil {
		t.Fatal(err)
	}
	if f != filepath.Join(dir, "out.ncf") {
		t.Errorf("have %s", f)
	}
	if _, err = checkOutputFile(""); err == nil {
		t.Error("an empty output file should fail")
	}
	if _, err = checkOutputFile(filepath.Join(dir, "missing", "out.ncf")); err == nil {
		t.Error("a missing directory should fail")
	}
}
