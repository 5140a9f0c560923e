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

// adjointOfCopy is the adjoint of dst = src: it adds dst into src and
// then zeroes dst. The two slices must not overlap.
func adjointOfCopy(src, dst []float64) {
	for i, v := range dst {
		src[i] += v
		dst[i] = 0
	}
}

// adjointOfScale is the adjoint of dst[i] = src[i] * fac[i]: it adds
// dst[i] * fac[i] into src[i] and then zeroes dst.
func adjointOfScale(src, dst, fac []float64) {
	for i, v := range dst {
		src[i] += v * fac[i]
		dst[i] = 0
	}
}

// zero sets every element of v to zero.
func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
