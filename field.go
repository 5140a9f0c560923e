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
	"sort"
	"sync"

	"github.com/ctessum/sparse"
)

// Field is a named two-dimensional array addressed by
// (horizontal point, vertical level). Data are stored row-major, so the
// column of point n is the contiguous slice returned by Column(n).
type Field struct {
	Name string
	*sparse.DenseArray
}

// NewField allocates a zeroed field.
func NewField(name string, points, levels int) *Field {
	return &Field{Name: name, DenseArray: sparse.ZerosDense(points, levels)}
}

// Points returns the number of horizontal points, including halo points.
func (f *Field) Points() int { return f.DenseArray.Shape[0] }

// Levels returns the number of vertical levels.
func (f *Field) Levels() int { return f.DenseArray.Shape[1] }

// Shape returns the extent of the given axis (0 = points, 1 = levels).
func (f *Field) Shape(axis int) int { return f.DenseArray.Shape[axis] }

// Column returns the vertical column of point n. The returned slice
// shares storage with f.
func (f *Field) Column(n int) []float64 {
	l := f.Levels()
	return f.Elements[n*l : (n+1)*l]
}

// FieldSet is the store that kernels read their inputs from and write
// their outputs to.
type FieldSet interface {
	// Field returns the named field, or an error if it is absent.
	Field(name string) (*Field, error)

	// Has reports whether the named field is present.
	Has(name string) bool

	// SetDirty declares that the halo values of the named field
	// are stale after a local-only update.
	SetDirty(name string)
}

// Fields is an in-memory FieldSet.
type Fields struct {
	// Owned is the number of points owned by this partition. Points
	// with index >= Owned are halo points.
	Owned int

	fields map[string]*Field
	dirty  map[string]bool
	mu     sync.RWMutex
}

// NewFields returns an empty field store with the given number of
// owned points.
func NewFields(owned int) *Fields {
	return &Fields{
		Owned:  owned,
		fields: make(map[string]*Field),
		dirty:  make(map[string]bool),
	}
}

// Add allocates a zeroed field and adds it to the store, replacing
// any field with the same name.
func (fs *Fields) Add(name string, points, levels int) *Field {
	f := NewField(name, points, levels)
	fs.Put(f)
	return f
}

// Put adds f to the store, replacing any field with the same name.
func (fs *Fields) Put(f *Field) {
	fs.mu.Lock()
	fs.fields[f.Name] = f
	fs.mu.Unlock()
}

// Field returns the named field.
func (fs *Fields) Field(name string) (*Field, error) {
	fs.mu.RLock()
	f, ok := fs.fields[name]
	fs.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("vader: field %q is not present", name)
	}
	return f, nil
}

// Has reports whether the named field is present.
func (fs *Fields) Has(name string) bool {
	fs.mu.RLock()
	_, ok := fs.fields[name]
	fs.mu.RUnlock()
	return ok
}

// SetDirty marks the named field as needing a halo exchange.
func (fs *Fields) SetDirty(name string) {
	fs.mu.Lock()
	fs.dirty[name] = true
	fs.mu.Unlock()
}

// Dirty reports whether the named field has been marked dirty.
func (fs *Fields) Dirty(name string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirty[name]
}

// ClearDirty forgets all dirty marks, e.g. after a halo exchange.
func (fs *Fields) ClearDirty() {
	fs.mu.Lock()
	fs.dirty = make(map[string]bool)
	fs.mu.Unlock()
}

// Names returns the names of the fields in the store in sorted order.
func (fs *Fields) Names() []string {
	fs.mu.RLock()
	names := make([]string, 0, len(fs.fields))
	for n := range fs.fields {
		names = append(names, n)
	}
	fs.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Copy returns a deep copy of the store. Dirty marks are not copied.
func (fs *Fields) Copy() *Fields {
	o := NewFields(fs.Owned)
	fs.mu.RLock()
	for n, f := range fs.fields {
		o.fields[n] = &Field{Name: n, DenseArray: f.DenseArray.Copy()}
	}
	fs.mu.RUnlock()
	return o
}

// Zero sets every value of the named fields to zero.
func (fs *Fields) Zero(names ...string) error {
	for _, n := range names {
		f, err := fs.Field(n)
		if err != nil {
			return err
		}
		zero(f.Elements)
	}
	return nil
}

// getFields looks up the named fields in fs, in order.
func getFields(fs FieldSet, names ...string) ([]*Field, error) {
	o := make([]*Field, len(names))
	for i, n := range names {
		f, err := fs.Field(n)
		if err != nil {
			return nil, err
		}
		o[i] = f
	}
	return o, nil
}

// checkShapes returns an error unless all fields have the given number
// of points and levels. A negative levels value skips the level check.
func checkShapes(points, levels int, fields ...*Field) error {
	for _, f := range fields {
		if f.Points() != points {
			return fmt.Errorf("field %q has %d points but %d are required", f.Name, f.Points(), points)
		}
		if levels >= 0 && f.Levels() != levels {
			return fmt.Errorf("field %q has %d levels but %d are required", f.Name, f.Levels(), levels)
		}
	}
	return nil
}

// setDirty marks each of the named fields dirty in fs.
func setDirty(fs FieldSet, names ...string) {
	for _, n := range names {
		fs.SetDirty(n)
	}
}
