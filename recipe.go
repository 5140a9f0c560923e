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

// Recipe is a variable change that produces some fields from others.
type Recipe interface {
	// Name returns the name the recipe was registered under.
	Name() string

	// Ingredients returns the names of the fields the recipe is
	// computed from.
	Ingredients() []string

	// Products returns the names of the fields the recipe computes.
	Products() []string
}

// Nonlinear is a recipe that can be evaluated on a full state.
type Nonlinear interface {
	Recipe

	// Compute calculates the products from the ingredients in state.
	Compute(state FieldSet) error
}

// Linear is a recipe with a tangent-linear operator and its adjoint,
// both linearized around the background in state.
type Linear interface {
	Recipe

	// TL calculates the product increments from the ingredient
	// increments in inc.
	TL(inc, state FieldSet) error

	// AD propagates the product sensitivities in hat back to the
	// ingredient sensitivities, accumulating into the ingredients and
	// zeroing the consumed products.
	AD(hat, state FieldSet) error
}

// Inverse is a linear recipe whose tangent-linear operator can be
// undone.
type Inverse interface {
	Linear

	// InverseTL recovers the InverseProducts increments in inc from
	// the other fields of the recipe.
	InverseTL(inc, state FieldSet) error

	// InverseProducts returns the names of the fields InverseTL writes.
	InverseProducts() []string
}

// Recipe names.
const (
	AirPressureName         = "AirPressure_A"
	HydrostaticExnerName    = "HydrostaticExner_A"
	HydrostaticPressureName = "HydrostaticPressure_A"
	SurfaceAirPressureName  = "SurfaceAirPressure_A"
	SurfaceTemperatureName  = "SurfaceTemperature_A"
	SurfaceWindName         = "SurfaceWind_A"
)

// RecipeNames returns the names accepted by NewRecipe.
func RecipeNames() []string {
	return []string{
		AirPressureName,
		HydrostaticExnerName,
		HydrostaticPressureName,
		SurfaceAirPressureName,
		SurfaceTemperatureName,
		SurfaceWindName,
	}
}

// NewRecipe creates the named recipe, reading field-name overrides and
// constants from p. p may be nil.
func NewRecipe(name string, p Params) (Recipe, error) {
	if p == nil {
		p = Params{}
	}
	var r Recipe
	var err error
	switch name {
	case AirPressureName:
		r, err = NewAirPressure(p)
	case HydrostaticExnerName:
		r, err = NewHydrostaticExner(p)
	case HydrostaticPressureName:
		r, err = NewHydrostaticPressure(p)
	case SurfaceAirPressureName:
		r, err = NewSurfaceAirPressure(p)
	case SurfaceTemperatureName:
		r, err = NewSurfaceTemperature(p)
	case SurfaceWindName:
		r, err = NewSurfaceWind(p)
	default:
		return nil, fmt.Errorf("vader: unknown recipe %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("vader: configuring %s: %w", name, err)
	}
	return r, nil
}

// fieldNames resolves field names from p, using the keys of defaults
// as both the configuration keys and the default values.
func fieldNames(p Params, defaults ...string) ([]string, error) {
	o := make([]string, len(defaults))
	for i, d := range defaults {
		n, err := p.stringOr(d, d)
		if err != nil {
			return nil, err
		}
		o[i] = n
	}
	return o, nil
}

// checkDistinct returns an error if any two names are the same field.
func checkDistinct(names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("field %q is used for more than one role", n)
		}
		seen[n] = true
	}
	return nil
}

// recipeError prefixes err with the recipe name.
func recipeError(name string, err error) error {
	return fmt.Errorf("vader: %s: %w", name, err)
}
