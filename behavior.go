package cmdspec

import (
	"sort"
	"strings"

	"github.com/napalu/cmdspec/internal/util"
)

// NewParserBehavior returns the default behavior, adjusted by configs: option prefix "-", separator
// "=", end of options "--", clustered short options enabled, everything else disabled.
func NewParserBehavior(configs ...ConfigureBehaviorFunc) *ParserBehavior {
	b := &ParserBehavior{
		clusteredShortOptions: true,
		separator:             "=",
		endOfOptions:          "--",
		prefixes:              []string{"-"},
	}
	for _, config := range configs {
		config(b)
	}

	return b
}

// OverwrittenOptionsAllowed reports whether a later option may replace an earlier one of the same name
func (b *ParserBehavior) OverwrittenOptionsAllowed() bool {
	return b.overwrittenOptionsAllowed
}

// UnmatchedArgumentsAllowed reports whether unknown tokens are recorded instead of failing the parse
func (b *ParserBehavior) UnmatchedArgumentsAllowed() bool {
	return b.unmatchedArgumentsAllowed
}

// UnmatchedOptionsArePositionals reports whether unknown option-like tokens are matched as positionals
func (b *ParserBehavior) UnmatchedOptionsArePositionals() bool {
	return b.unmatchedOptionsArePositionals
}

func (b *ParserBehavior) CaseInsensitiveOptions() bool {
	return b.caseInsensitiveOptions
}

// ClusteredShortOptions reports whether "-abc" is matched as "-a -b -c"
func (b *ParserBehavior) ClusteredShortOptions() bool {
	return b.clusteredShortOptions
}

// Separator returns the string separating an option name from an attached value
func (b *ParserBehavior) Separator() string {
	return b.separator
}

// EndOfOptions returns the delimiter after which every token is positional
func (b *ParserBehavior) EndOfOptions() string {
	return b.endOfOptions
}

// Prefixes returns the option prefixes
func (b *ParserBehavior) Prefixes() []string {
	return util.Clone(b.prefixes)
}

// ExpandAtFiles reports whether "@file" arguments are replaced by the contents of file
func (b *ParserBehavior) ExpandAtFiles() bool {
	return b.expandAtFiles
}

// prefixOf returns the longest prefix s starts with
func (b *ParserBehavior) prefixOf(s string) (string, bool) {
	for _, p := range b.prefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

// AllowOverwrittenOptions lets a later option replace an earlier one sharing a name
func AllowOverwrittenOptions(allowed bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.overwrittenOptionsAllowed = allowed
	}
}

// AllowUnmatchedArguments records unknown tokens instead of failing the parse
func AllowUnmatchedArguments(allowed bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.unmatchedArgumentsAllowed = allowed
	}
}

// TreatUnmatchedOptionsAsPositionals matches unknown option-like tokens as positional parameters
func TreatUnmatchedOptionsAsPositionals(enabled bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.unmatchedOptionsArePositionals = enabled
	}
}

// SetCaseInsensitiveOptions matches option names regardless of case when no exact match exists
func SetCaseInsensitiveOptions(enabled bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.caseInsensitiveOptions = enabled
	}
}

// SetClusteredShortOptions enables POSIX clustering of single-character options ("-abc", "-n1")
func SetClusteredShortOptions(enabled bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.clusteredShortOptions = enabled
	}
}

// WithSeparator sets the string separating an option name from an attached value. An empty
// separator disables attached values of long options.
func WithSeparator(separator string) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.separator = separator
	}
}

// WithEndOfOptions sets the delimiter after which every token is positional. An empty delimiter
// disables it.
func WithEndOfOptions(delimiter string) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.endOfOptions = delimiter
	}
}

// WithPrefixes sets the option prefixes, e.g. "-" and "/". Empty prefixes are ignored.
func WithPrefixes(prefixes ...string) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.prefixes = b.prefixes[:0:0]
		for _, p := range prefixes {
			if p != "" {
				b.prefixes = append(b.prefixes, p)
			}
		}
		sort.SliceStable(b.prefixes, func(i, j int) bool {
			return len(b.prefixes[i]) > len(b.prefixes[j])
		})
	}
}

// SetExpandAtFiles replaces "@file" arguments by the shell-split contents of file before matching
func SetExpandAtFiles(enabled bool) ConfigureBehaviorFunc {
	return func(b *ParserBehavior) {
		b.expandAtFiles = enabled
	}
}
