package cmdspec

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/napalu/cmdspec/types"
)

// WithNames sets the names of an option. Each name includes its prefix, e.g. "-f" or "--file".
func WithNames(names ...string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Names = append(argument.Names[:0:0], names...)
	}
}

// WithParamLabel sets the display name of the value(s) in usage output
func WithParamLabel(label string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.ParamLabel = label
	}
}

// WithDescription the description will be used in usage output presented to the user
func WithDescription(description string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Description = description
	}
}

// WithType sets the declared type of the value
func WithType(typ reflect.Type) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Type = typ
	}
}

// WithTypeOf sets the declared type of the value to T
func WithTypeOf[T any]() ConfigureArgumentFunc {
	return WithType(reflect.TypeOf((*T)(nil)).Elem())
}

// WithAuxTypes sets the conversion targets of container elements: the element type of slices and
// collections, the key and value types of maps
func WithAuxTypes(auxTypes ...reflect.Type) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.AuxTypes = append(argument.AuxTypes[:0:0], auxTypes...)
	}
}

// WithArity sets the number of values consumed per match: "0", "1", "0..1", "2..*" or "*"
func WithArity(arity string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		if _, e := types.ParseRange(arity); e != nil {
			*err = fmt.Errorf("%w: arity: %w", ErrInvalidArgument, e)
			return
		}
		argument.Arity = arity
	}
}

// WithIndex sets the index range of a positional parameter: "0", "1..2" or "1..*"
func WithIndex(index string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		if _, e := types.ParseRange(index); e != nil {
			*err = fmt.Errorf("%w: index: %w", ErrInvalidArgument, e)
			return
		}
		argument.Index = index
	}
}

// SetRequired when true, the option or positional parameter must be supplied on the command-line
func SetRequired(required bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Required = required
	}
}

// WithSplit sets a regular expression splitting each matched value before conversion
func WithSplit(expr string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		if _, e := regexp.Compile(expr); e != nil {
			*err = fmt.Errorf("%w: split regex: %w", ErrInvalidArgument, e)
			return
		}
		argument.Split = expr
	}
}

// WithBinding sets where matched values are read from and written to
func WithBinding(binding Binding) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Binding = binding
	}
}

// BindTo binds the argument to the variable ptr points to. Unless set explicitly, the type of the
// argument becomes the type of the variable.
func BindTo(ptr any) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		b, e := BindPointer(ptr)
		if e != nil {
			*err = e
			return
		}
		argument.Binding = b
	}
}

// BindToField binds the argument to a field of the struct obj points to
func BindToField(obj any, field string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		b, e := BindField(obj, field)
		if e != nil {
			*err = e
			return
		}
		argument.Binding = b
	}
}

// WithDefaultValue sets the value assigned when the argument is not matched
func WithDefaultValue(defaultValue string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.DefaultValue = defaultValue
	}
}

// SetUsageHelp marks an option requesting usage help; matching it suppresses required validation
func SetUsageHelp(usageHelp bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.UsageHelp = usageHelp
	}
}

// SetVersionHelp marks an option requesting version information; matching it suppresses required validation
func SetVersionHelp(versionHelp bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.VersionHelp = versionHelp
	}
}

// SetHidden hides the argument from usage output
func SetHidden(hidden bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Hidden = hidden
	}
}
