package cmdspec

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/napalu/cmdspec/internal/util"
	"github.com/napalu/cmdspec/types"
)

var (
	boolType        = reflect.TypeOf(false)
	stringType      = reflect.TypeOf("")
	stringSliceType = reflect.TypeOf([]string(nil))
)

// NewArg convenience initialization method to configure options and positional parameters. The first
// configuration error is reported by NewOption or NewPositional.
func NewArg(configs ...ConfigureArgumentFunc) *Argument {
	argument := &Argument{}
	for _, config := range configs {
		config(argument, &argument.err)
		if argument.err != nil {
			break
		}
	}

	return argument
}

// Set configures the Argument instance with the provided ConfigureArgumentFunc(s),
// and returns an error if a configuration results in an error.
//
// Usage example:
//
//	arg := &Argument{}
//	err := arg.Set(
//	    WithNames("-n", "--num"),
//	    WithTypeOf[[]int](),
//	    WithSplit(","),
//	)
//	if err != nil {
//	    // handle error
//	}
func (a *Argument) Set(configs ...ConfigureArgumentFunc) error {
	var err error
	for _, config := range configs {
		config(a, &err)
		if err != nil {
			return err
		}
	}
	return nil
}

// String returns a string representation of the Argument instance
func (a *Argument) String() string {
	required := "(optional)"
	if a.Required {
		required = "(required)"
	}
	description := fmt.Sprintf("\"%s\"", a.Description)
	if a.DefaultValue != "" {
		description = fmt.Sprintf("\"%s\" (defaults to: %s)", a.Description, a.DefaultValue)
	}

	return strings.TrimLeft(fmt.Sprintf("%s %s %s", strings.Join(a.Names, ", "), description, required), " ")
}

// NewOption validates argument and builds an immutable OptionSpec from it
func NewOption(argument *Argument) (*OptionSpec, error) {
	if argument == nil {
		return nil, fmt.Errorf("%w: nil argument", ErrInvalidArgument)
	}
	if argument.err != nil {
		return nil, argument.err
	}
	if len(argument.Names) == 0 {
		return nil, fmt.Errorf("%w: an option needs at least one name", ErrInvalidArgument)
	}

	names := make([]string, 0, len(argument.Names))
	seen := map[string]bool{}
	for _, name := range argument.Names {
		if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: invalid option name '%s'", ErrInvalidArgument, name)
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	spec, err := newArgSpec(argument)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", names[0], err)
	}

	opt := &OptionSpec{
		ArgSpec:     spec,
		names:       names,
		usageHelp:   argument.UsageHelp,
		versionHelp: argument.VersionHelp,
	}
	if opt.paramLabel == "" && !opt.isFlag() {
		opt.paramLabel = "<" + strings.TrimLeft(opt.LongestName(), "-/+") + ">"
	}

	return opt, nil
}

// NewOptionWith is shorthand for NewOption(NewArg(configs...))
func NewOptionWith(configs ...ConfigureArgumentFunc) (*OptionSpec, error) {
	return NewOption(NewArg(configs...))
}

// NewPositional validates argument and builds an immutable PositionalParamSpec from it
func NewPositional(argument *Argument) (*PositionalParamSpec, error) {
	if argument == nil {
		return nil, fmt.Errorf("%w: nil argument", ErrInvalidArgument)
	}
	if argument.err != nil {
		return nil, argument.err
	}

	index, err := types.ParseRange(argument.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if index.IsUnspecified() {
		index = types.AtLeast(0)
	}

	spec, err := newArgSpecWith(argument, func(*Argument) reflect.Type {
		if index.IsSingle() {
			return stringType
		}
		return stringSliceType
	})
	if err != nil {
		return nil, fmt.Errorf("positional parameter [%s]: %w", index, err)
	}
	if argument.Arity == "" {
		spec.arity = types.Exactly(1)
	}

	pos := &PositionalParamSpec{
		ArgSpec: spec,
		index:   index,
	}
	if pos.paramLabel == "" {
		pos.paramLabel = "<params>"
	}

	return pos, nil
}

// NewPositionalWith is shorthand for NewPositional(NewArg(configs...))
func NewPositionalWith(configs ...ConfigureArgumentFunc) (*PositionalParamSpec, error) {
	return NewPositional(NewArg(configs...))
}

func newArgSpec(argument *Argument) (ArgSpec, error) {
	return newArgSpecWith(argument, func(a *Argument) reflect.Type {
		arity, _ := types.ParseRange(a.Arity)
		switch {
		case arity.IsUnspecified() || (!arity.Variable && arity.Max == 0):
			return boolType
		case !arity.IsMultiple():
			return stringType
		default:
			return stringSliceType
		}
	})
}

// newArgSpecWith applies the defaulting rules shared by options and positionals. defaultType supplies
// the type when neither the argument nor its binding declares one.
func newArgSpecWith(argument *Argument, defaultType func(*Argument) reflect.Type) (ArgSpec, error) {
	spec := ArgSpec{
		paramLabel:   argument.ParamLabel,
		description:  argument.Description,
		required:     argument.Required,
		splitExpr:    argument.Split,
		defaultValue: argument.DefaultValue,
		hidden:       argument.Hidden,
		binding:      argument.Binding,
	}

	var err error
	if spec.arity, err = types.ParseRange(argument.Arity); err != nil {
		return spec, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if argument.Split != "" {
		if spec.split, err = regexp.Compile(argument.Split); err != nil {
			return spec, fmt.Errorf("%w: split regex: %w", ErrInvalidArgument, err)
		}
	}

	var bound reflect.Type
	if tb, ok := argument.Binding.(TypedBinding); ok {
		bound = tb.Type()
	}
	spec.typ = argument.Type
	switch {
	case spec.typ == nil && bound != nil:
		spec.typ = bound
	case spec.typ == nil:
		spec.typ = defaultType(argument)
	case bound != nil && !spec.typ.AssignableTo(bound):
		return spec, fmt.Errorf("%w: type %s cannot be stored in a binding of type %s", ErrInvalidArgument, spec.typ, bound)
	}

	if spec.arity.IsUnspecified() {
		if isBoolish(spec.typ) {
			spec.arity = types.Exactly(0)
		} else {
			spec.arity = types.Exactly(1)
		}
	}

	spec.kind = containerKind(spec.typ)
	spec.auxTypes = util.Clone(argument.AuxTypes)
	if len(spec.auxTypes) == 0 {
		spec.auxTypes = defaultAuxTypes(spec.typ, spec.kind)
	}
	if spec.kind == types.Map && len(spec.auxTypes) < 2 {
		return spec, fmt.Errorf("%w: a map needs key and value types", ErrInvalidArgument)
	}

	if spec.binding == nil {
		spec.binding = NewValueBinding(spec.typ)
	}
	if spec.initial, err = spec.binding.Get(); err != nil {
		return spec, fmt.Errorf("%w: %w", ErrBindingAccess, err)
	}

	return spec, nil
}

func isBoolish(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool:
		return true
	case reflect.Slice:
		return typ.Elem().Kind() == reflect.Bool
	}
	return false
}

func containerKind(typ reflect.Type) types.ContainerKind {
	switch {
	case typ.Kind() == reflect.Slice && typ.Elem().Kind() != reflect.Uint8:
		return types.Array
	case typ.Kind() == reflect.Map:
		return types.Map
	case typ.Kind() == reflect.Ptr && typ.Implements(collectionType):
		return types.Collection
	default:
		return types.Scalar
	}
}

func defaultAuxTypes(typ reflect.Type, kind types.ContainerKind) []reflect.Type {
	switch kind {
	case types.Array:
		return []reflect.Type{concrete(typ.Elem())}
	case types.Map:
		return []reflect.Type{concrete(typ.Key()), concrete(typ.Elem())}
	case types.Collection:
		if typ.Implements(elementTyperType) {
			return []reflect.Type{concrete(reflect.New(typ.Elem()).Interface().(ElementTyper).ElemType())}
		}
		return []reflect.Type{stringType}
	default:
		return []reflect.Type{concrete(typ)}
	}
}

// concrete replaces interface types with string, the type values are converted to when nothing
// more specific is known
func concrete(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Interface {
		return stringType
	}
	return typ
}

func (a *ArgSpec) argSpec() *ArgSpec {
	return a
}

// ParamLabel returns the display name of the value(s)
func (a *ArgSpec) ParamLabel() string {
	return a.paramLabel
}

func (a *ArgSpec) Description() string {
	return a.description
}

// Type returns the declared type of the value behind the binding
func (a *ArgSpec) Type() reflect.Type {
	return a.typ
}

// AuxTypes returns the conversion target(s) of matched values
func (a *ArgSpec) AuxTypes() []reflect.Type {
	return append([]reflect.Type(nil), a.auxTypes...)
}

func (a *ArgSpec) Arity() types.Range {
	return a.arity
}

func (a *ArgSpec) Required() bool {
	return a.required
}

// SplitRegex returns the expression splitting matched values, or "" when values are not split
func (a *ArgSpec) SplitRegex() string {
	return a.splitExpr
}

func (a *ArgSpec) DefaultValue() string {
	return a.defaultValue
}

func (a *ArgSpec) Hidden() bool {
	return a.hidden
}

func (a *ArgSpec) Binding() Binding {
	return a.binding
}

// ContainerKind returns how repeated values are combined
func (a *ArgSpec) ContainerKind() types.ContainerKind {
	return a.kind
}

// Value reads the current value through the binding
func (a *ArgSpec) Value() (any, error) {
	return a.binding.Get()
}

func (a *ArgSpec) splitValue(raw string) []string {
	if a.split == nil {
		return []string{raw}
	}
	return a.split.Split(raw, -1)
}

// Names returns every name of the option
func (o *OptionSpec) Names() []string {
	return util.Clone(o.names)
}

// LongestName returns the longest name of the option, the first one on ties
func (o *OptionSpec) LongestName() string {
	longest := o.names[0]
	for _, name := range o.names[1:] {
		if len(name) > len(longest) {
			longest = name
		}
	}
	return longest
}

// ShortestName returns the shortest name of the option, the first one on ties
func (o *OptionSpec) ShortestName() string {
	shortest := o.names[0]
	for _, name := range o.names[1:] {
		if len(name) < len(shortest) {
			shortest = name
		}
	}
	return shortest
}

// UsageHelp reports whether matching this option requests usage help
func (o *OptionSpec) UsageHelp() bool {
	return o.usageHelp
}

// VersionHelp reports whether matching this option requests version information
func (o *OptionSpec) VersionHelp() bool {
	return o.versionHelp
}

func (o *OptionSpec) String() string {
	return strings.Join(o.names, ", ")
}

func (o *OptionSpec) isFlag() bool {
	return !o.arity.Variable && o.arity.Max == 0
}

// Index returns the positional index range
func (p *PositionalParamSpec) Index() types.Range {
	return p.index
}

func (p *PositionalParamSpec) String() string {
	return fmt.Sprintf("%s[%s]", p.paramLabel, p.index)
}
