package util

import (
	"errors"
	"reflect"
)

// ErrNilPointer is returned when a nil pointer is encountered while unwrapping
var ErrNilPointer = errors.New("nil pointer encountered")

// UnwrapValue recursively unwraps pointer and returns the underlying value
// Returns the zero Value if a nil pointer is encountered
func UnwrapValue(v reflect.Value) (reflect.Value, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, ErrNilPointer
		}
		v = v.Elem()
	}
	return v, nil
}

// UnwrapType recursively unwraps pointer types and returns the underlying type
func UnwrapType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsNil reports whether v is nil or a typed nil held in an interface
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Zero returns the zero value of t as an interface, or nil when t is nil
func Zero(t reflect.Type) any {
	if t == nil {
		return nil
	}
	return reflect.Zero(t).Interface()
}
