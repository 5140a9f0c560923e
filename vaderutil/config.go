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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	vader "github.com/lo-y-wni/vader-sub001"
	"github.com/spf13/cast"
)

// StateConfig unmarshals the size of the random test state from a viper
// configuration.
func StateConfig(cfg *viper.Viper) (vader.StateConfig, error) {
	var c vader.StateConfig
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"Points", &c.Points},
		{"Owned", &c.Owned},
		{"Levels", &c.Levels},
		{"Bins", &c.Bins},
	} {
		i, err := cast.ToIntE(cfg.Get(v.name))
		if err != nil {
			return c, fmt.Errorf("vader: parsing configuration variable %s: %v", v.name, err)
		}
		*v.dst = i
	}
	if err := c.Check(); err != nil {
		return c, err
	}
	return c, nil
}

// RecipeParams returns the per-recipe settings in a viper configuration.
// The settings may be given as a TOML document with one table per recipe,
// or as a map of recipe names to tables. Viper lower-cases the keys of
// maps read from configuration files, so settings whose keys are not
// lower case (such as the physical constants) must use the TOML form.
func RecipeParams(cfg *viper.Viper) (map[string]vader.Params, error) {
	o := make(map[string]vader.Params)
	var raw map[string]interface{}
	switch v := cfg.Get("RecipeParams").(type) {
	case nil:
		return o, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		if _, err := toml.Decode(v, &raw); err != nil {
			return nil, fmt.Errorf("vader: parsing configuration variable RecipeParams: %v", err)
		}
	default:
		var err error
		if raw, err = cast.ToStringMapE(v); err != nil {
			return nil, fmt.Errorf("vader: parsing configuration variable RecipeParams: %v", err)
		}
	}
	// Viper lower-cases the keys of maps, so recipe names are matched
	// without regard to case.
	known := make(map[string]string)
	for _, n := range vader.RecipeNames() {
		known[strings.ToLower(n)] = n
	}
	for key, table := range raw {
		name, ok := known[strings.ToLower(key)]
		if !ok {
			return nil, fmt.Errorf("vader: RecipeParams holds settings for unknown recipe %q", key)
		}
		p, err := cast.ToStringMapE(table)
		if err != nil {
			return nil, fmt.Errorf("vader: RecipeParams for %s is not a table: %v", name, err)
		}
		o[name] = vader.Params(p)
	}
	return o, nil
}

// Recipes creates the recipes named in the "Recipes" configuration
// variable, configured with their RecipeParams. Every recipe must have
// a tangent-linear operator.
func Recipes(cfg *viper.Viper) ([]vader.Linear, error) {
	names, err := cast.ToStringSliceE(cfg.Get("Recipes"))
	if err != nil {
		return nil, fmt.Errorf("vader: parsing configuration variable Recipes: %v", err)
	}
	names = expandStringSlice(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("vader: no recipes are specified. Please fill in the " +
			"Recipes configuration variable and try again")
	}
	params, err := RecipeParams(cfg)
	if err != nil {
		return nil, err
	}
	o := make([]vader.Linear, len(names))
	for i, n := range names {
		r, err := vader.NewRecipe(n, params[n])
		if err != nil {
			return nil, err
		}
		l, ok := r.(vader.Linear)
		if !ok {
			return nil, fmt.Errorf("vader: recipe %s has no tangent-linear operator", n)
		}
		o[i] = l
	}
	return o, nil
}

// expandStringSlice expands the environment variables in a slice of strings
// and trims the white space around them.
func expandStringSlice(s []string) []string {
	var o []string
	for _, v := range s {
		v = strings.TrimSpace(os.ExpandEnv(v))
		if v != "" {
			o = append(o, v)
		}
	}
	return o
}

func expandPath(p string) string { return os.ExpandEnv(p) }

// checkMode makes sure the run mode is either tl or ad.
func checkMode(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m != modeTL && m != modeAD {
		return m, fmt.Errorf("vader: the Mode configuration variable needs to be set to "+
			"either %s or %s, but is currently set to `%s`", modeTL, modeAD, m)
	}
	return m, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`vader: you need to specify an output file configuration variable (for example: OutputFile="output.ncf")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("vader: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}
