package cmdspec

import (
	"github.com/napalu/cmdspec/internal/util"
)

func newParseResult(spec *CommandSpec, args []string) *ParseResult {
	return &ParseResult{
		spec:            spec,
		originalArgs:    util.Clone(args),
		matched:         map[Arg]bool{},
		stringValues:    map[Arg][]string{},
		originalStrings: map[Arg][]string{},
		values:          map[Arg]any{},
	}
}

// CommandSpec returns the command this result belongs to
func (r *ParseResult) CommandSpec() *CommandSpec {
	return r.spec
}

// OriginalArgs returns the complete argument list of the parse, after argument file expansion
func (r *ParseResult) OriginalArgs() []string {
	return util.Clone(r.originalArgs)
}

// MatchedOptions returns the options matched in this frame, once per occurrence, in matching order
func (r *ParseResult) MatchedOptions() []*OptionSpec {
	return util.Clone(r.matchedOptions)
}

// MatchedPositionals returns the tokens consumed by positional parameters in this frame
func (r *ParseResult) MatchedPositionals() []PositionalMatch {
	return util.Clone(r.matchedPositionals)
}

// Unmatched returns the tokens which matched nothing, when unmatched arguments are allowed
func (r *ParseResult) Unmatched() []string {
	return util.Clone(r.unmatched)
}

// MatchedOption returns the option called name if it was matched, nil otherwise. name may omit the
// prefix, see CommandSpec.FindOption.
func (r *ParseResult) MatchedOption(name string) *OptionSpec {
	opt := r.spec.FindOption(name)
	if opt == nil || !r.matched[opt] {
		return nil
	}
	return opt
}

// HasMatchedOption returns true when the option called name was matched in this frame
func (r *ParseResult) HasMatchedOption(name string) bool {
	return r.MatchedOption(name) != nil
}

// MatchedOptionValue returns the value of the option called name, or defaultValue when it was not
// matched
func (r *ParseResult) MatchedOptionValue(name string, defaultValue any) any {
	opt := r.MatchedOption(name)
	if opt == nil {
		return defaultValue
	}
	return r.Value(opt)
}

// MatchedPositional returns the positional parameter which consumed the token at index
func (r *ParseResult) MatchedPositional(index int) *PositionalParamSpec {
	for _, m := range r.matchedPositionals {
		if m.Index == index {
			return m.Spec
		}
	}
	return nil
}

func (r *ParseResult) HasMatchedPositional(index int) bool {
	return r.MatchedPositional(index) != nil
}

// MatchedPositionalValue returns the value of the positional parameter which consumed the token at
// index, or defaultValue when there is none
func (r *ParseResult) MatchedPositionalValue(index int, defaultValue any) any {
	pos := r.MatchedPositional(index)
	if pos == nil {
		return defaultValue
	}
	return r.Value(pos)
}

// MatchedPositionalString returns the token consumed at positional index
func (r *ParseResult) MatchedPositionalString(index int) (string, bool) {
	for _, m := range r.matchedPositionals {
		if m.Index == index {
			return m.Value, true
		}
	}
	return "", false
}

// Value returns the value arg held when its frame was done, or nil when arg was not matched
func (r *ParseResult) Value(arg Arg) any {
	return copyValue(r.values[arg])
}

// StringValues returns the matched values of arg after splitting
func (r *ParseResult) StringValues(arg Arg) []string {
	return util.Clone(r.stringValues[arg])
}

// OriginalStringValues returns the tokens consumed by arg as typed
func (r *ParseResult) OriginalStringValues(arg Arg) []string {
	return util.Clone(r.originalStrings[arg])
}

// Subcommand returns the result of the invoked subcommand
func (r *ParseResult) Subcommand() (*ParseResult, bool) {
	return r.subcommand, r.subcommand != nil
}

func (r *ParseResult) HasSubcommand() bool {
	return r.subcommand != nil
}

// IsUsageHelpRequested returns true when an option requesting usage help was matched in this frame
func (r *ParseResult) IsUsageHelpRequested() bool {
	return r.usageHelp
}

// IsVersionHelpRequested returns true when an option requesting version information was matched in
// this frame
func (r *ParseResult) IsVersionHelpRequested() bool {
	return r.versionHelp
}

// Frames returns this result followed by the results of nested subcommands
func (r *ParseResult) Frames() []*ParseResult {
	var frames []*ParseResult
	for f := r; f != nil; f = f.subcommand {
		frames = append(frames, f)
	}
	return frames
}

// Leaf returns the result of the innermost invoked command
func (r *ParseResult) Leaf() *ParseResult {
	frames := r.Frames()
	return frames[len(frames)-1]
}

// OptionValue returns the value of the option called name as T. defaultValue is returned when the
// option was not matched or holds a value of another type.
func OptionValue[T any](r *ParseResult, name string, defaultValue T) T {
	opt := r.MatchedOption(name)
	if opt == nil {
		return defaultValue
	}
	return valueAs(r.Value(opt), defaultValue)
}

// PositionalValue returns the value of the positional parameter matched at index as T
func PositionalValue[T any](r *ParseResult, index int, defaultValue T) T {
	pos := r.MatchedPositional(index)
	if pos == nil {
		return defaultValue
	}
	return valueAs(r.Value(pos), defaultValue)
}

func valueAs[T any](v any, defaultValue T) T {
	if t, ok := v.(T); ok {
		return t
	}
	return defaultValue
}
