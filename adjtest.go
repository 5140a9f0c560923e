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

	"gonum.org/v1/gonum/floats"
)

// Dot returns the inner product of the named fields in a and b, summed
// over the first owned points and all levels.
func Dot(a, b FieldSet, owned int, names ...string) (float64, error) {
	var sum float64
	for _, name := range names {
		fa, err := a.Field(name)
		if err != nil {
			return 0, err
		}
		fb, err := b.Field(name)
		if err != nil {
			return 0, err
		}
		if err = checkShapes(fa.Points(), fa.Levels(), fb); err != nil {
			return 0, err
		}
		if owned > fa.Points() {
			return 0, fmt.Errorf("vader: %d owned points requested but field %q has %d points",
				owned, name, fa.Points())
		}
		end := owned * fa.Levels()
		sum += floats.Dot(fa.Elements[:end], fb.Elements[:end])
	}
	return sum, nil
}

// ZerosLike returns a store holding zeroed fields with the same names
// and shapes as the named fields of fs, or all of them if no names are
// given.
func ZerosLike(fs *Fields, names ...string) (*Fields, error) {
	if len(names) == 0 {
		names = fs.Names()
	}
	o := NewFields(fs.Owned)
	for _, n := range names {
		f, err := fs.Field(n)
		if err != nil {
			return nil, err
		}
		o.Add(n, f.Points(), f.Levels())
	}
	return o, nil
}

// Randomize fills the named fields of fs with values drawn uniformly
// from [-1, 1).
func Randomize(fs FieldSet, rng *rand.Rand, names ...string) error {
	fields, err := getFields(fs, names...)
	if err != nil {
		return err
	}
	for _, f := range fields {
		for i := range f.Elements {
			f.Elements[i] = 2*rng.Float64() - 1
		}
	}
	return nil
}

// CheckZeroed returns an error unless every value of the named fields
// of fs is exactly zero.
func CheckZeroed(fs FieldSet, names ...string) error {
	fields, err := getFields(fs, names...)
	if err != nil {
		return err
	}
	for _, f := range fields {
		for i, v := range f.Elements {
			if v != 0 {
				return fmt.Errorf("vader: field %q is %g at point %d level %d but should be zero",
					f.Name, v, i/f.Levels(), i%f.Levels())
			}
		}
	}
	return nil
}

// AdjointResult holds the two sides of an adjoint dot-product test.
type AdjointResult struct {
	Recipe string
	FxY    float64 // <F x, y>
	XFty   float64 // <x, F* y>
}

// RelativeError returns the difference between the two sides relative
// to their magnitude.
func (a AdjointResult) RelativeError() float64 {
	d := math.Abs(a.FxY - a.XFty)
	if d == 0 {
		return 0
	}
	return d / math.Max(math.Abs(a.FxY), math.Abs(a.XFty))
}

func (a AdjointResult) String() string {
	return fmt.Sprintf("%s: <F x, y> = %.16e, <x, F* y> = %.16e, relative error = %.3g",
		a.Recipe, a.FxY, a.XFty, a.RelativeError())
}

// AdjointTest checks that the adjoint of r is the transpose of its
// tangent-linear operator. template must hold the ingredients and
// products of r with the shapes r expects; it is not modified. Random
// ingredient increments x and product sensitivities y are drawn from
// rng, and <F x, y> is compared with <x, F* y> over the owned points.
// An error is also returned if the adjoint leaves any consumed product
// sensitivity nonzero.
func AdjointTest(r Linear, state FieldSet, template *Fields, rng *rand.Rand) (AdjointResult, error) {
	res := AdjointResult{Recipe: r.Name()}

	x := template.Copy()
	if err := x.Zero(r.Products()...); err != nil {
		return res, err
	}
	if err := Randomize(x, rng, r.Ingredients()...); err != nil {
		return res, err
	}
	fx := x.Copy()
	if err := r.TL(fx, state); err != nil {
		return res, err
	}

	y := template.Copy()
	if err := y.Zero(y.Names()...); err != nil {
		return res, err
	}
	if err := Randomize(y, rng, r.Products()...); err != nil {
		return res, err
	}
	fty := y.Copy()
	if err := r.AD(fty, state); err != nil {
		return res, err
	}
	if err := CheckZeroed(fty, r.Products()...); err != nil {
		return res, fmt.Errorf("vader: %s adjoint: %w", r.Name(), err)
	}

	var err error
	if res.FxY, err = Dot(fx, y, template.Owned, r.Products()...); err != nil {
		return res, err
	}
	if res.XFty, err = Dot(x, fty, template.Owned, r.Ingredients()...); err != nil {
		return res, err
	}
	return res, nil
}

// InverseTest applies the tangent-linear operator of r to random
// ingredient increments followed by its inverse, and returns the
// largest relative difference between the recovered and the original
// increments.
func InverseTest(r Inverse, state FieldSet, template *Fields, rng *rand.Rand) (float64, error) {
	x := template.Copy()
	if err := Randomize(x, rng, r.Ingredients()...); err != nil {
		return 0, err
	}
	if err := r.TL(x, state); err != nil {
		return 0, err
	}
	want, err := ZerosLike(x, r.InverseProducts()...)
	if err != nil {
		return 0, err
	}
	for _, n := range r.InverseProducts() {
		f, _ := x.Field(n)
		w, _ := want.Field(n)
		copy(w.Elements, f.Elements)
	}
	if err = x.Zero(r.InverseProducts()...); err != nil {
		return 0, err
	}
	if err = r.InverseTL(x, state); err != nil {
		return 0, err
	}
	var maxErr float64
	for _, n := range r.InverseProducts() {
		f, _ := x.Field(n)
		w, _ := want.Field(n)
		scale := math.SmallestNonzeroFloat64
		for _, v := range w.Elements {
			scale = math.Max(scale, math.Abs(v))
		}
		for i, v := range f.Elements {
			maxErr = math.Max(maxErr, math.Abs(v-w.Elements[i])/scale)
		}
	}
	return maxErr, nil
}
