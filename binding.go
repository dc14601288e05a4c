package cmdspec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/napalu/cmdspec/internal/util"
)

// Getter reads the current value of a binding
type Getter interface {
	Get() (any, error)
}

// Setter stores a value and returns the previous one. Implementations which cannot report the
// previous value return nil.
type Setter interface {
	Set(value any) (any, error)
}

// Binding is where the value of an option or positional parameter is read from and written to
type Binding interface {
	Getter
	Setter
}

// TypedBinding is implemented by bindings which know the type of the value they hold. The type is
// used when an Argument does not declare one.
type TypedBinding interface {
	Binding
	Type() reflect.Type
}

// ValueBinding stores its value internally. It is used when an Argument has no binding.
type ValueBinding struct {
	typ   reflect.Type
	value any
}

// NewValueBinding returns a ValueBinding holding the zero value of typ
func NewValueBinding(typ reflect.Type) *ValueBinding {
	return &ValueBinding{
		typ:   typ,
		value: util.Zero(typ),
	}
}

func (b *ValueBinding) Get() (any, error) {
	return b.value, nil
}

func (b *ValueBinding) Set(value any) (any, error) {
	prev := b.value
	b.value = value
	return prev, nil
}

func (b *ValueBinding) Type() reflect.Type {
	return b.typ
}

// PointerBinding reads and writes the variable a pointer points to
type PointerBinding struct {
	target reflect.Value
}

// BindPointer binds to the variable ptr points to. ptr must be a non-nil pointer.
func BindPointer(ptr any) (*PointerBinding, error) {
	if ptr == nil {
		return nil, ErrBindNilPointer
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return nil, fmt.Errorf(FmtErrorWithString, ErrVariableNotAPointer, v.Type())
	}
	if v.IsNil() {
		return nil, fmt.Errorf(FmtErrorWithString, ErrBindNilPointer, v.Type())
	}

	return &PointerBinding{target: v.Elem()}, nil
}

func (b *PointerBinding) Get() (any, error) {
	return b.target.Interface(), nil
}

func (b *PointerBinding) Set(value any) (prev any, err error) {
	defer recoverAccess(&err)
	prev = b.target.Interface()
	v, err := assignable(value, b.target.Type())
	if err != nil {
		return nil, err
	}
	b.target.Set(v)

	return prev, nil
}

func (b *PointerBinding) Type() reflect.Type {
	return b.target.Type()
}

// FieldBinding reads and writes an exported field of a caller-owned struct
type FieldBinding struct {
	field reflect.Value
	name  string
}

// BindField binds to a field of the struct obj points to. The field is looked up by its exact name
// first and then by the camel-cased form of name with leading option prefixes removed, so that
// "--dry-run" resolves to the field DryRun.
func BindField(obj any, name string) (*FieldBinding, error) {
	if obj == nil {
		return nil, ErrBindNilPointer
	}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, fmt.Errorf(FmtErrorWithString, ErrVariableNotAPointer, v.Type())
	}
	if v.IsNil() {
		return nil, fmt.Errorf(FmtErrorWithString, ErrBindNilPointer, v.Type())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidArgument, v.Type())
	}

	candidates := []string{name, strcase.ToCamel(strings.TrimLeft(name, "-/"))}
	for _, candidate := range candidates {
		sf, ok := v.Type().FieldByName(candidate)
		if !ok {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is not exported", ErrFieldNotFound, v.Type(), sf.Name)
		}
		return &FieldBinding{field: v.FieldByIndex(sf.Index), name: sf.Name}, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrFieldNotFound, name, v.Type())
}

func (b *FieldBinding) Get() (value any, err error) {
	defer recoverAccess(&err)
	return b.field.Interface(), nil
}

func (b *FieldBinding) Set(value any) (prev any, err error) {
	defer recoverAccess(&err)
	prev = b.field.Interface()
	v, err := assignable(value, b.field.Type())
	if err != nil {
		return nil, err
	}
	b.field.Set(v)

	return prev, nil
}

func (b *FieldBinding) Type() reflect.Type {
	return b.field.Type()
}

// FieldName returns the name of the bound struct field
func (b *FieldBinding) FieldName() string {
	return b.name
}

// FuncBinding delegates to caller-supplied functions. A nil getter reads nil and a nil setter
// discards values.
type FuncBinding struct {
	get func() (any, error)
	set func(any) error
	typ reflect.Type
}

// NewFuncBinding returns a binding calling get and set
func NewFuncBinding(get func() (any, error), set func(any) error) *FuncBinding {
	return &FuncBinding{get: get, set: set}
}

// BindFuncs returns a typed FuncBinding for values of type T
func BindFuncs[T any](get func() (T, error), set func(T) error) *FuncBinding {
	b := &FuncBinding{typ: reflect.TypeOf((*T)(nil)).Elem()}
	if get != nil {
		b.get = func() (any, error) { return get() }
	}
	if set != nil {
		b.set = func(value any) error {
			v, err := assignable(value, b.typ)
			if err != nil {
				return err
			}
			return set(v.Interface().(T))
		}
	}
	return b
}

func (b *FuncBinding) Get() (value any, err error) {
	defer recoverAccess(&err)
	if b.get == nil {
		return nil, nil
	}
	return b.get()
}

func (b *FuncBinding) Set(value any) (prev any, err error) {
	defer recoverAccess(&err)
	if b.set == nil {
		return nil, nil
	}
	return nil, b.set(value)
}

// Type returns the value type of a binding built with BindFuncs, nil otherwise
func (b *FuncBinding) Type() reflect.Type {
	return b.typ
}

// assignable returns value as a reflect.Value assignable to typ, converting where Go allows it
func assignable(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}
	if v.Type().ConvertibleTo(typ) && v.Kind() == typ.Kind() {
		return v.Convert(typ), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", v.Type(), typ)
}

func recoverAccess(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%v", r)
	}
}
