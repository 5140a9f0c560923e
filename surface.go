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

// Surface extracts the lowest level of one or more column fields into
// surface fields. Columns[i] is copied to Surfaces[i].
type Surface struct {
	name     string
	Columns  []string
	Surfaces []string
}

func newSurface(name string, p Params, columns, surfaces []string) (*Surface, error) {
	c, err := fieldNames(p, columns...)
	if err != nil {
		return nil, err
	}
	s, err := fieldNames(p, surfaces...)
	if err != nil {
		return nil, err
	}
	if err = checkDistinct(append(append([]string{}, c...), s...)...); err != nil {
		return nil, err
	}
	return &Surface{name: name, Columns: c, Surfaces: s}, nil
}

// NewSurfaceAirPressure configures a recipe that copies
// "air_pressure_levels" to "surface_pressure".
func NewSurfaceAirPressure(p Params) (*Surface, error) {
	return newSurface(SurfaceAirPressureName, p,
		[]string{"air_pressure_levels"}, []string{"surface_pressure"})
}

// NewSurfaceTemperature configures a recipe that copies
// "air_temperature" to "surface_temperature".
func NewSurfaceTemperature(p Params) (*Surface, error) {
	return newSurface(SurfaceTemperatureName, p,
		[]string{"air_temperature"}, []string{"surface_temperature"})
}

// NewSurfaceWind configures a recipe that copies "eastward_wind" and
// "northward_wind" to "uwind_at_10m" and "vwind_at_10m".
func NewSurfaceWind(p Params) (*Surface, error) {
	return newSurface(SurfaceWindName, p,
		[]string{"eastward_wind", "northward_wind"}, []string{"uwind_at_10m", "vwind_at_10m"})
}

// Name implements Recipe.
func (s *Surface) Name() string { return s.name }

// Ingredients implements Recipe.
func (s *Surface) Ingredients() []string { return s.Columns }

// Products implements Recipe.
func (s *Surface) Products() []string { return s.Surfaces }

// pairs returns the column and surface fields in fs.
func (s *Surface) pairs(fs FieldSet) (columns, surfaces []*Field, err error) {
	if columns, err = getFields(fs, s.Columns...); err != nil {
		return nil, nil, err
	}
	if surfaces, err = getFields(fs, s.Surfaces...); err != nil {
		return nil, nil, err
	}
	for i, c := range columns {
		if err = checkShapes(c.Points(), -1, surfaces[i]); err != nil {
			return nil, nil, err
		}
		for _, f := range []*Field{c, surfaces[i]} {
			if f.Levels() < 1 {
				return nil, nil, fmt.Errorf("field %q has no levels", f.Name)
			}
		}
	}
	return columns, surfaces, nil
}

func (s *Surface) extract(fs FieldSet) error {
	columns, surfaces, err := s.pairs(fs)
	if err != nil {
		return recipeError(s.name, err)
	}
	for i, c := range columns {
		sfc := surfaces[i]
		forEachPoint(c.Points(), pointFunc(func(n int) {
			sfc.Column(n)[0] = c.Column(n)[0]
		}))
	}
	setDirty(fs, s.Surfaces...)
	return nil
}

// Compute implements Nonlinear.
func (s *Surface) Compute(state FieldSet) error { return s.extract(state) }

// TL implements Linear.
func (s *Surface) TL(inc, _ FieldSet) error { return s.extract(inc) }

// AD implements Linear.
func (s *Surface) AD(hat, _ FieldSet) error {
	columns, surfaces, err := s.pairs(hat)
	if err != nil {
		return recipeError(s.name, err)
	}
	for i, c := range columns {
		sfc := surfaces[i]
		forEachPoint(c.Points(), pointFunc(func(n int) {
			adjointOfCopy(c.Column(n)[:1], sfc.Column(n)[:1])
		}))
	}
	setDirty(hat, s.Columns...)
	setDirty(hat, s.Surfaces...)
	return nil
}
