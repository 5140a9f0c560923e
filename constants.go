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

// Constants holds the physical constants used by the recipes.
type Constants struct {
	Rd float64 // gas constant for dry air [J/kg/K]
	Cp float64 // specific heat of dry air at constant pressure [J/kg/K]
	P0 float64 // reference pressure for exner [Pa]
	G  float64 // gravitational acceleration [m/s2]
}

// DefaultConstants are the constants used unless a recipe is
// configured otherwise.
var DefaultConstants = Constants{
	Rd: 287.05,
	Cp: 1005.0,
	P0: 100000.,
	G:  9.80665,
}

// Kappa returns Rd/Cp.
func (c Constants) Kappa() float64 { return c.Rd / c.Cp }
