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

// Package vader provides tangent-linear and adjoint variable changes
// between atmospheric state variables on a vertically levelled grid,
// for use inside variational data assimilation.
//
// Every linear recipe in this package comes as a pair: a tangent-linear
// (TL) operator and an adjoint (AD) operator that is its exact transpose.
// Adjoint operators follow one convention throughout: the adjoint of an
// assignment accumulates into the source field and then zeroes the
// consumed target.
package vader

// Version gives the version number.
const Version = "0.3.0"
