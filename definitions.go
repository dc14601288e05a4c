package cmdspec

import (
	"errors"
	"reflect"
	"regexp"
	"sync/atomic"

	"github.com/napalu/cmdspec/convert"
	"github.com/napalu/cmdspec/parse"
	"github.com/napalu/cmdspec/types"
	"github.com/napalu/cmdspec/types/orderedmap"
	"github.com/rs/zerolog"
)

// ConfigureArgumentFunc is used when defining options and positional parameters
type ConfigureArgumentFunc func(argument *Argument, err *error)

// ConfigureCommandFunc is used when defining a CommandSpec
type ConfigureCommandFunc func(command *CommandSpec, err *error)

// ConfigureParserFunc is used when defining Parser options
type ConfigureParserFunc func(parser *Parser, err *error)

// ConfigureBehaviorFunc is used when defining ParserBehavior options
type ConfigureBehaviorFunc func(behavior *ParserBehavior)

// Argument is the mutable description of an option or positional parameter. It is turned into an
// immutable OptionSpec with NewOption or into a PositionalParamSpec with NewPositional.
type Argument struct {
	// Names of an option including their prefix, e.g. "-f" and "--file". Ignored for positionals.
	Names []string
	// ParamLabel is the display name of the value(s) in usage output
	ParamLabel  string
	Description string
	// Type is the declared type of the value behind the binding
	Type reflect.Type
	// AuxTypes are the element types of containers: the slice or collection element, or the
	// key and value types of a map
	AuxTypes []reflect.Type
	// Arity is the number of values consumed per match, as accepted by types.ParseRange
	Arity string
	// Index is the positional index range, as accepted by types.ParseRange. Ignored for options.
	Index    string
	Required bool
	// Split is a regular expression splitting each matched value before conversion
	Split        string
	Binding      Binding
	DefaultValue string
	UsageHelp    bool
	VersionHelp  bool
	Hidden       bool
	err          error
}

// Arg is implemented by OptionSpec and PositionalParamSpec
type Arg interface {
	ParamLabel() string
	Description() string
	Type() reflect.Type
	AuxTypes() []reflect.Type
	Arity() types.Range
	Required() bool
	SplitRegex() string
	DefaultValue() string
	Hidden() bool
	Binding() Binding
	ContainerKind() types.ContainerKind
	String() string
	argSpec() *ArgSpec
}

// ArgSpec holds the configuration shared by options and positional parameters. It is immutable once
// built; only the value reachable through its Binding changes.
type ArgSpec struct {
	paramLabel   string
	description  string
	typ          reflect.Type
	auxTypes     []reflect.Type
	arity        types.Range
	required     bool
	splitExpr    string
	split        *regexp.Regexp
	defaultValue string
	hidden       bool
	binding      Binding
	kind         types.ContainerKind
	initial      any
}

// OptionSpec describes a named option
type OptionSpec struct {
	ArgSpec
	names       []string
	usageHelp   bool
	versionHelp bool
}

// PositionalParamSpec describes positional parameters occupying an index range
type PositionalParamSpec struct {
	ArgSpec
	index types.Range
}

// ParserBehavior configures how tokens of a command frame are matched
type ParserBehavior struct {
	overwrittenOptionsAllowed      bool
	unmatchedArgumentsAllowed      bool
	unmatchedOptionsArePositionals bool
	caseInsensitiveOptions         bool
	clusteredShortOptions          bool
	separator                      string
	endOfOptions                   string
	prefixes                       []string
	expandAtFiles                  bool
}

// CommandSpec describes a command: its options, positional parameters, subcommands and mixins
type CommandSpec struct {
	name          string
	aliases       []string
	version       []string
	usageMessage  string
	options       []*OptionSpec
	optionsByName map[string]*OptionSpec
	positionals   []*PositionalParamSpec
	subcommands   *orderedmap.OrderedMap[string, *CommandSpec]
	mixins        *orderedmap.OrderedMap[string, *CommandSpec]
	behavior      *ParserBehavior
	parent        *CommandSpec
	frozen        atomic.Bool
}

// Parser matches argument lists against a CommandSpec
type Parser struct {
	spec       *CommandSpec
	converters *convert.Registry
	logger     zerolog.Logger
	readFile   parse.FileReader
}

// PositionalMatch records the positional parameter which consumed the token at Index
type PositionalMatch struct {
	Spec  *PositionalParamSpec
	Index int
	Value string
}

// ParseResult is the outcome of matching one command frame. A nested result is attached for the
// invoked subcommand, if any.
type ParseResult struct {
	spec               *CommandSpec
	originalArgs       []string
	matchedOptions     []*OptionSpec
	matchedPositionals []PositionalMatch
	matched            map[Arg]bool
	stringValues       map[Arg][]string
	originalStrings    map[Arg][]string
	values             map[Arg]any
	unmatched          []string
	usageHelp          bool
	versionHelp        bool
	subcommand         *ParseResult
}

var (
	ErrDuplicateName       = errors.New("duplicate name")
	ErrUnmatchedArgument   = errors.New("unmatched argument")
	ErrMissingParameter    = errors.New("missing parameter")
	ErrTypeConversion      = errors.New("type conversion failed")
	ErrBindingAccess       = errors.New("binding access failed")
	ErrSpecFrozen          = errors.New("command spec is frozen")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrBindNilPointer      = errors.New("can't bind to nil")
	ErrVariableNotAPointer = errors.New("variable is not a pointer")
	ErrFieldNotFound       = errors.New("field not found")
)

const (
	FmtErrorWithString = "%w: %s"
)

const mixinStandardHelpOptions = "mixinStandardHelpOptions"
