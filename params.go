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

	"github.com/spf13/cast"
)

// Params is a generic key-value configuration. Lookups fail if the key
// is absent or if the stored value is not of the requested kind.
// Numeric values may be requested as any numeric type.
type Params map[string]interface{}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) get(key string) (interface{}, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("vader: configuration key %q is missing", key)
	}
	return v, nil
}

func typeError(key string, v interface{}, want string) error {
	return fmt.Errorf("vader: configuration key %q holds %T but %s was requested", key, v, want)
}

// String returns the string stored at key.
func (p Params) String(key string) (string, error) {
	v, err := p.get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, v, "a string")
	}
	return s, nil
}

// Float64 returns the number stored at key.
func (p Params) Float64(key string) (float64, error) {
	v, err := p.get(key)
	if err != nil {
		return 0, err
	}
	if !isNumber(v) {
		return 0, typeError(key, v, "a number")
	}
	return cast.ToFloat64E(v)
}

// Int returns the integer stored at key.
func (p Params) Int(key string) (int, error) {
	v, err := p.get(key)
	if err != nil {
		return 0, err
	}
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToIntE(v)
	default:
		return 0, typeError(key, v, "an integer")
	}
}

// Bool returns the boolean stored at key.
func (p Params) Bool(key string) (bool, error) {
	v, err := p.get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(key, v, "a boolean")
	}
	return b, nil
}

// StringSlice returns the list of strings stored at key.
func (p Params) StringSlice(key string) ([]string, error) {
	v, err := p.get(key)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case []interface{}:
		for _, e := range vv {
			if _, ok := e.(string); !ok {
				return nil, typeError(key, v, "a list of strings")
			}
		}
		return cast.ToStringSliceE(vv)
	default:
		return nil, typeError(key, v, "a list of strings")
	}
}

// Sub returns the nested configuration stored at key.
func (p Params) Sub(key string) (Params, error) {
	v, err := p.get(key)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case Params:
		return vv, nil
	case map[string]interface{}, map[interface{}]interface{}:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("vader: configuration key %q: %v", key, err)
		}
		return Params(m), nil
	default:
		return nil, typeError(key, v, "a table")
	}
}

// stringOr returns the string stored at key, or def if key is absent.
func (p Params) stringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// float64Or returns the number stored at key, or def if key is absent.
func (p Params) float64Or(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float64(key)
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
