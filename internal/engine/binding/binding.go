// Package binding resolves typed uniform tables against a linked shader program.
//
// A table is a struct whose int32 fields carry a `uniform:"name"` tag:
//
//	type terrainUniforms struct {
//		View      int32 `uniform:"V"`
//		ClipPlane int32 `uniform:"clipPlane"`
//	}
//
// Resolve fills every tagged field once, right after linking, so drawables never
// look uniforms up by string while rendering.
package binding

import (
	"errors"
	"fmt"
	"reflect"
)

// Unresolved is the location GL reports for unknown or inactive uniforms.
const Unresolved int32 = -1

// ErrNotTable is returned when Resolve is given something other than a pointer to a struct.
var ErrNotTable = errors.New("uniform table must be a pointer to a struct")

// LookupFunc returns the location of the named uniform, or Unresolved.
type LookupFunc func(name string) int32

// Resolve fills the tagged int32 fields of dst using lookup. It returns the names
// that resolved to Unresolved; those fields are set to Unresolved, which GL ignores.
func Resolve(dst any, lookup LookupFunc) (missing []string, err error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotTable
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := f.Tag.Lookup("uniform")
		if !ok {
			continue
		}
		if f.Type.Kind() != reflect.Int32 {
			return nil, fmt.Errorf("field %s: uniform location must be int32, got %s", f.Name, f.Type)
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("field %s: uniform location must be exported", f.Name)
		}

		loc := lookup(name)
		if loc < 0 {
			loc = Unresolved
			missing = append(missing, name)
		}
		v.Field(i).SetInt(int64(loc))
	}

	return missing, nil
}

// Names returns the uniform names declared by a table type, in field order.
func Names(table any) []string {
	t := reflect.TypeOf(table)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		if name, ok := t.Field(i).Tag.Lookup("uniform"); ok {
			names = append(names, name)
		}
	}
	return names
}
