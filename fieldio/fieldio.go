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


// Package fieldio reads and writes vader field stores as netCDF files.
//
// Every field is stored as a double precision variable with dimensions
// ("points", "levels_<n>"), where n is the number of levels of the field.
// Fields with the same number of levels share a level dimension. The
// regression fields may have a different number of rows than the model
// fields; they are stored with a "rows_<n>" dimension instead of "points"
// when their row count differs. The number of owned points is stored in
// the global attribute "owned".
package fieldio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/unit"
	vader "github.com/lo-y-wni/vader-sub001"
)

// DataVersion is the version of the file layout. Files with a different
// version cannot be read.
const DataVersion = "1.0.0"

var kelvin = unit.Dimensions{unit.TemperatureDim: 1}

// dimensions of the fields that the recipes use under their default names.
var dimensions = map[string]unit.Dimensions{
	"height_levels":                unit.Meter,
	"height":                       unit.Meter,
	"air_pressure_levels":          unit.Pascal,
	"air_pressure":                 unit.Pascal,
	"hydrostatic_pressure_levels":  unit.Pascal,
	"unbalanced_pressure_levels":   unit.Pascal,
	"geostrophic_pressure_levels":  unit.Pascal,
	"surface_pressure":             unit.Pascal,
	"hydrostatic_exner_levels":     unit.Dimless,
	"air_temperature":              kelvin,
	"surface_temperature":          kelvin,
	"eastward_wind":                unit.MeterPerSecond,
	"northward_wind":               unit.MeterPerSecond,
	"uwind_at_10m":                 unit.MeterPerSecond,
	"vwind_at_10m":                 unit.MeterPerSecond,
	"interpolation_weights":        unit.Dimless,
	"vertical_regression_matrices": unit.Dimless,
}

// Units returns the SI units of the named field as they are written to
// the "units" attribute: "1" for dimensionless fields and "unknown" for
// fields that are not recognized.
func Units(name string) string {
	d, ok := dimensions[name]
	switch {
	case !ok:
		return "unknown"
	case d.Matches(unit.Dimless):
		return "1"
	}
	return d.String()
}

func levelDim(n int) string { return fmt.Sprintf("levels_%d", n) }

// rowDim returns the name of the row dimension of a field with n rows
// in a file whose model fields have npoints points.
func rowDim(n, npoints int) string {
	if n == npoints {
		return "points"
	}
	return fmt.Sprintf("rows_%d", n)
}

func isRegression(name string) bool {
	for _, n := range vader.RegressionFields {
		if n == name {
			return true
		}
	}
	return false
}

// Write writes every field in fs to netCDF file w. All fields except the
// regression fields must have the same number of points.
func Write(w *os.File, fs *vader.Fields) error {
	names := fs.Names()
	if len(names) == 0 {
		return fmt.Errorf("fieldio: no fields to write")
	}
	fields := make([]*vader.Field, len(names))
	npoints := -1
	var first string
	for i, n := range names {
		f, err := fs.Field(n)
		if err != nil {
			return err
		}
		// A zero-length dimension would be the record dimension.
		if f.Points() == 0 || f.Levels() == 0 {
			return fmt.Errorf("fieldio: field %q is empty", n)
		}
		fields[i] = f
		if isRegression(n) {
			continue
		}
		switch {
		case npoints < 0:
			npoints, first = f.Points(), n
		case f.Points() != npoints:
			return fmt.Errorf("fieldio: field %q has %d points but %q has %d",
				n, f.Points(), first, npoints)
		}
	}

	var dims []string
	var lengths []int
	seen := make(map[string]bool)
	addDim := func(name string, n int) {
		if !seen[name] {
			seen[name] = true
			dims = append(dims, name)
			lengths = append(lengths, n)
		}
	}
	if npoints > 0 {
		addDim("points", npoints)
	}
	for _, f := range fields {
		addDim(rowDim(f.Points(), npoints), f.Points())
	}
	for _, f := range fields {
		addDim(levelDim(f.Levels()), f.Levels())
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "vader field store")
	h.AddAttribute("", "owned", []int32{int32(fs.Owned)})
	h.AddAttribute("", "data_version", DataVersion)
	h.AddAttribute("", "vader_version", vader.Version)
	for _, f := range fields {
		h.AddVariable(f.Name, []string{rowDim(f.Points(), npoints), levelDim(f.Levels())}, []float64{0})
		h.AddAttribute(f.Name, "units", Units(f.Name))
	}
	h.Define()

	cf, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("fieldio: %v", err)
	}
	for _, f := range fields {
		if err = writeField(cf, f); err != nil {
			return fmt.Errorf("fieldio: writing variable %s: %v", f.Name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeField(f *cdf.File, fld *vader.Field) error {
	end := f.Header.Lengths(fld.Name)
	n := 1
	for _, v := range end {
		n *= v
	}
	if len(fld.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(fld.Elements))
	}
	w := f.Writer(fld.Name, make([]int, len(end)), end)
	_, err := w.Write(fld.Elements)
	return err
}

// Read reads a field store from netCDF file rw.
func Read(rw cdf.ReaderWriterAt) (*vader.Fields, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("fieldio: %v", err)
	}
	version, ok := f.Header.GetAttribute("", "data_version").(string)
	if !ok {
		return nil, fmt.Errorf("fieldio: file has no data version")
	}
	if version != DataVersion {
		return nil, fmt.Errorf("fieldio: data version %s is incompatible with the required version %s",
			version, DataVersion)
	}
	owned, ok := f.Header.GetAttribute("", "owned").([]int32)
	if !ok || len(owned) != 1 {
		return nil, fmt.Errorf("fieldio: file has no owned point count")
	}

	fs := vader.NewFields(int(owned[0]))
	npoints, maxRows := -1, 0
	for _, v := range f.Header.Variables() {
		dims := f.Header.Lengths(v)
		if len(dims) != 2 {
			return nil, fmt.Errorf("fieldio: variable %s has %d dimensions; want 2", v, len(dims))
		}
		if f.Header.Dimensions(v)[0] == "points" {
			npoints = dims[0]
		}
		if dims[0] > maxRows {
			maxRows = dims[0]
		}
		if u, ok := f.Header.GetAttribute(v, "units").(string); ok && u != Units(v) {
			return nil, fmt.Errorf("fieldio: variable %s has units %q but should have %q", v, u, Units(v))
		}
		fld := fs.Add(v, dims[0], dims[1])
		r := f.Reader(v, nil, nil)
		n, err := r.Read(fld.Elements)
		if err != nil {
			return nil, fmt.Errorf("fieldio: reading variable %s: %v", v, err)
		}
		if n != len(fld.Elements) {
			return nil, fmt.Errorf("fieldio: variable %s: read %d values but dims are %d",
				v, n, len(fld.Elements))
		}
	}
	if npoints < 0 {
		npoints = maxRows
	}
	if fs.Owned > npoints {
		return nil, fmt.Errorf("fieldio: %d owned points but only %d points", fs.Owned, npoints)
	}
	return fs, nil
}

// ReadFile opens and reads the named file.
func ReadFile(name string) (*vader.Fields, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("fieldio: %v", err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile creates the named file and writes fs to it.
func WriteFile(name string, fs *vader.Fields) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("fieldio: %v", err)
	}
	if err = Write(f, fs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
