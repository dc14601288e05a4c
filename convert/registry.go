// Package convert maps argument strings to typed values.
//
// A Registry holds one Converter per target type. Registration is expected to happen before
// parsing starts; lookups are safe for concurrent use.
package convert

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnsupportedType is returned when no converter is registered for a target type
var ErrUnsupportedType = errors.New("unsupported type")

// Converter converts a string to a value of type t
type Converter interface {
	Convert(s string, t reflect.Type) (any, error)
}

// ConverterFunc adapts a function to the Converter interface
type ConverterFunc func(s string, t reflect.Type) (any, error)

// Convert calls f(s, t)
func (f ConverterFunc) Convert(s string, t reflect.Type) (any, error) {
	return f(s, t)
}

// ConversionError describes a value which could not be converted to its target type
type ConversionError struct {
	Value string
	Type  reflect.Type
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot convert '%s' to %s", e.Value, typeName(e.Type))
	}
	return fmt.Sprintf("cannot convert '%s' to %s: %v", e.Value, typeName(e.Type), e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Registry maps target types to converters
type Registry struct {
	mu         sync.RWMutex
	converters map[reflect.Type]Converter
	kinds      map[reflect.Kind]Converter
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry holding the built-in converters
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry returns a registry holding the built-in converters
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerBuiltins(r)
	return r
}

// NewEmptyRegistry returns a registry without any type converters. Named types whose
// underlying kind is a string, boolean or number are still converted.
func NewEmptyRegistry() *Registry {
	r := &Registry{
		converters: map[reflect.Type]Converter{},
		kinds:      map[reflect.Kind]Converter{},
	}
	registerKinds(r)
	return r
}

// Register associates c with type t, replacing any converter previously registered for t
func (r *Registry) Register(t reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[t] = c
}

// Register associates fn with type T on r
func Register[T any](r *Registry, fn func(s string) (T, error)) {
	r.Register(reflect.TypeOf((*T)(nil)).Elem(), ConverterFunc(func(s string, _ reflect.Type) (any, error) {
		return fn(s)
	}))
}

// Lookup returns the converter for t. Resolution order: a converter registered for exactly t,
// then encoding.TextUnmarshaler, then the converter of t's underlying kind.
func (r *Registry) Lookup(t reflect.Type) (Converter, bool) {
	if t == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.converters[t]; ok {
		return c, true
	}
	if implementsTextUnmarshaler(t) {
		return ConverterFunc(unmarshalText), true
	}
	c, ok := r.kinds[t.Kind()]

	return c, ok
}

// Convert converts s to a value of type t. Failures are returned as *ConversionError.
func (r *Registry) Convert(s string, t reflect.Type) (any, error) {
	c, ok := r.Lookup(t)
	if !ok {
		return nil, &ConversionError{Value: s, Type: t, Err: ErrUnsupportedType}
	}

	v, err := c.Convert(s, t)
	if err != nil {
		var convErr *ConversionError
		if errors.As(err, &convErr) {
			return nil, err
		}
		return nil, &ConversionError{Value: s, Type: t, Err: err}
	}

	return v, nil
}

// Supports reports whether a converter exists for t
func (r *Registry) Supports(t reflect.Type) bool {
	_, ok := r.Lookup(t)
	return ok
}

func implementsTextUnmarshaler(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		return t.Implements(textUnmarshalerType)
	}
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func unmarshalText(s string, t reflect.Type) (any, error) {
	isPtr := t.Kind() == reflect.Ptr
	elem := t
	if isPtr {
		elem = t.Elem()
	}

	v := reflect.New(elem)
	if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	if isPtr {
		return v.Interface(), nil
	}

	return v.Elem().Interface(), nil
}
