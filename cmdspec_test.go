package cmdspec

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpec(t *testing.T, configs ...ConfigureCommandFunc) *CommandSpec {
	t.Helper()
	spec, err := NewCommandSpec(configs...)
	require.NoError(t, err)
	return spec
}

func scenarioSpec(t *testing.T) *CommandSpec {
	return newTestSpec(t,
		WithOption(WithNames("-V", "--verbose"), WithDescription("be verbose")),
		WithOption(WithNames("-f", "--file"), WithTypeOf[*List[string]]()),
		WithOption(WithNames("-n", "--num"), WithTypeOf[[]int](), WithSplit(",")),
	)
}

func TestParser_Parse(t *testing.T) {
	spec := scenarioSpec(t)

	result, err := Parse(spec, []string{"--verbose", "-f", "file1", "--file=file2", "-n1,2,3"})
	require.NoError(t, err)

	assert.True(t, result.HasMatchedOption("-V"), "--verbose should be found by its short name")
	assert.Equal(t, true, result.MatchedOptionValue("verbose", false))

	files := OptionValue[*List[string]](result, "f", nil)
	require.NotNil(t, files, "-f should hold a list")
	assert.Equal(t, []string{"file1", "file2"}, files.Values())

	assert.Equal(t, []int{1, 2, 3}, result.MatchedOptionValue("n", []int{}))
	num := spec.FindOption("-n")
	assert.Equal(t, []string{"1", "2", "3"}, result.StringValues(num))
	assert.Equal(t, []string{"1,2,3"}, result.OriginalStringValues(num))
	assert.Len(t, result.MatchedOptions(), 4, "every occurrence should be recorded")
}

func TestParser_Parse_Subcommand(t *testing.T) {
	sub := newTestSpec(t, WithPositional(WithIndex("0..*")))
	spec := newTestSpec(t,
		WithOption(WithNames("-x"), WithArity("1")),
		WithSubcommand("sub", sub),
	)

	result, err := Parse(spec, []string{"-x", "xval", "sub", "1", "2", "3"})
	require.NoError(t, err)

	assert.Equal(t, "xval", result.MatchedOptionValue("-x", "default"))
	assert.True(t, result.HasSubcommand())

	child, ok := result.Subcommand()
	require.True(t, ok)
	assert.Same(t, sub, child.CommandSpec())
	for i := 0; i < 3; i++ {
		assert.True(t, child.HasMatchedPositional(i), "positional %d should be matched", i)
	}
	assert.False(t, child.HasMatchedPositional(3))
	assert.Equal(t, []string{"1", "2", "3"}, child.MatchedPositionalValue(0, nil))
	assert.Equal(t, "sub", sub.Name())
	assert.Equal(t, "sub", sub.QualifiedName())
	assert.Len(t, result.Frames(), 2)
	assert.Same(t, child, result.Leaf())
}

func TestParser_Parse_SubcommandAlias(t *testing.T) {
	sub := newTestSpec(t, WithAliases("s"), WithOption(WithNames("-q")))
	spec := newTestSpec(t, WithSubcommand("status", sub))

	result, err := Parse(spec, []string{"s", "-q"})
	require.NoError(t, err)

	child, ok := result.Subcommand()
	require.True(t, ok)
	assert.True(t, child.HasMatchedOption("-q"))
	assert.Equal(t, []string{"status", "s"}, spec.SubcommandNames())
	assert.Len(t, spec.Subcommands(), 1, "aliases should not duplicate the subcommand")
}

func TestParser_Parse_Required(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantMissing bool
	}{
		{name: "required option missing", args: []string{}, wantMissing: true},
		{name: "required option present", args: []string{"--name", "x"}},
		{name: "usage help suppresses validation", args: []string{"-h"}},
		{name: "version help suppresses validation", args: []string{"--version"}},
		{name: "help in subcommand suppresses validation", args: []string{"sub", "--help"}},
		{name: "missing in subcommand", args: []string{"--name", "x", "sub"}, wantMissing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newTestSpec(t,
				WithOption(WithNames("--id"), WithArity("1"), SetRequired(true)),
				WithStandardHelpOptions(),
			)
			spec := newTestSpec(t,
				WithOption(WithNames("--name"), WithArity("1"), SetRequired(true)),
				WithStandardHelpOptions(),
				WithSubcommand("sub", sub),
			)

			result, err := Parse(spec, tt.args)
			if !tt.wantMissing {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrMissingParameter)
			var missing *MissingParameterError
			require.ErrorAs(t, err, &missing)
			require.Len(t, missing.Missing, 1)
			assert.True(t, missing.Missing[0].Required())
		})
	}
}

func TestParser_Parse_RequiredNamesEveryMissingArgument(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("-a"), WithArity("1"), SetRequired(true)),
		WithOption(WithNames("-b"), WithArity("1"), SetRequired(true)),
		WithPositional(WithIndex("0"), SetRequired(true), WithParamLabel("<target>")),
	)

	_, err := Parse(spec, nil)
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Missing, 3)
	assert.Contains(t, err.Error(), "option '-a'")
	assert.Contains(t, err.Error(), "option '-b'")
	assert.Contains(t, err.Error(), "<target>[0]")
	assert.Same(t, spec, CommandOf(err))
}

func TestParser_Parse_Collections(t *testing.T) {
	want := []string{"v1", "v2", "v3", "v2"}

	t.Run("nil list", func(t *testing.T) {
		var list *List[string]
		spec := newTestSpec(t, WithOption(WithNames("-l"), BindTo(&list)))
		_, err := Parse(spec, []string{"-l", "v1", "-l", "v2", "-l", "v3", "-l", "v2"})
		require.NoError(t, err)
		require.NotNil(t, list)
		assert.Equal(t, want, list.Values())
	})

	t.Run("empty list", func(t *testing.T) {
		list := NewList[string]()
		spec := newTestSpec(t, WithOption(WithNames("-l"), BindTo(&list)))
		_, err := Parse(spec, []string{"-l", "v1", "-l", "v2", "-l", "v3", "-l", "v2"})
		require.NoError(t, err)
		assert.Equal(t, want, list.Values())
	})

	t.Run("prefilled list", func(t *testing.T) {
		initial := NewList("old")
		list := initial
		spec := newTestSpec(t, WithOption(WithNames("-l"), BindTo(&list)))
		_, err := Parse(spec, []string{"-l", "v1", "-l", "v2", "-l", "v3", "-l", "v2"})
		require.NoError(t, err)
		assert.Equal(t, want, list.Values())
		assert.Equal(t, []string{"old"}, initial.Values(), "the initial collection should not be added to")
	})

	t.Run("ordered set", func(t *testing.T) {
		var set *OrderedSet[int]
		spec := newTestSpec(t, WithOption(WithNames("-s"), BindTo(&set), WithSplit(",")))
		_, err := Parse(spec, []string{"-s", "3,1", "-s", "3,2"})
		require.NoError(t, err)
		require.NotNil(t, set)
		assert.Equal(t, []int{3, 1, 2}, set.Values())
	})

	t.Run("array", func(t *testing.T) {
		var values []string
		spec := newTestSpec(t, WithOption(WithNames("-a"), BindTo(&values)))
		_, err := Parse(spec, []string{"-a", "v1", "-a", "v2", "-a", "v3", "-a", "v2"})
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(want, values))
	})
}

func TestParser_Parse_Map(t *testing.T) {
	var defines map[string]int
	spec := newTestSpec(t, WithOption(WithNames("-D", "--define"), BindTo(&defines)))

	result, err := Parse(spec, []string{"-Da=1", "--define", "b=2", "-D", "a=3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "b": 2}, defines)
	assert.Equal(t, []string{"a=1", "b=2", "a=3"}, result.StringValues(spec.FindOption("D")))

	_, err = Parse(spec, []string{"-D", "novalue"})
	assert.ErrorIs(t, err, ErrTypeConversion)
	assert.ErrorIs(t, err, errNotKeyValue)
}

func TestParseResult_RoundTrip(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("-n"), WithTypeOf[[]int](), WithSplit(",")),
		WithPositional(WithIndex("0..*"), WithTypeOf[[]string](), WithSplit(":")),
	)

	result, err := Parse(spec, []string{"-n", "1,2", "-n3", "a:b", "c", "-n", "4,5,6"})
	require.NoError(t, err)

	num := spec.FindOption("-n")
	assert.Len(t, result.StringValues(num), 6, "one string value per split piece")
	assert.Len(t, result.OriginalStringValues(num), 3, "one original string per matched token")

	pos := spec.Positionals()[0]
	assert.Equal(t, []string{"a", "b", "c"}, result.StringValues(pos))
	assert.Equal(t, []string{"a:b", "c"}, result.OriginalStringValues(pos))
	value, ok := result.MatchedPositionalString(0)
	assert.True(t, ok)
	assert.Equal(t, "a:b", value)
}

func TestParseResult_Idempotent(t *testing.T) {
	spec := scenarioSpec(t)
	result, err := Parse(spec, []string{"-n", "1,2,3", "-f", "x"})
	require.NoError(t, err)

	num := spec.FindOption("-n")
	first := result.MatchedOptionValue("-n", nil)
	first.([]int)[0] = 42
	strs := result.StringValues(num)
	strs[0] = "changed"

	assert.Equal(t, []int{1, 2, 3}, result.MatchedOptionValue("-n", nil), "values should not change between queries")
	assert.Equal(t, []string{"1", "2", "3"}, result.StringValues(num))
	assert.Equal(t, result.MatchedOptions(), result.MatchedOptions())
}

func TestParser_Parse_Reparse(t *testing.T) {
	var nums []int
	verbose := false
	spec := newTestSpec(t,
		WithOption(WithNames("-v"), BindTo(&verbose)),
		WithOption(WithNames("-n"), BindTo(&nums)),
	)
	p, err := NewParser(spec)
	require.NoError(t, err)

	_, err = p.Parse([]string{"-v", "-n", "1", "-n", "2"})
	require.NoError(t, err)
	assert.True(t, verbose)
	assert.Equal(t, []int{1, 2}, nums)
	assert.True(t, spec.IsFrozen())

	result, err := p.Parse([]string{"-n", "3"})
	require.NoError(t, err)
	assert.False(t, verbose, "bindings should be restored before a new parse")
	assert.Equal(t, []int{3}, nums)
	assert.False(t, result.HasMatchedOption("-v"))

	err = spec.AddOption(nil)
	assert.ErrorIs(t, err, ErrSpecFrozen)
	err = spec.Set(WithOption(WithNames("--late")))
	assert.ErrorIs(t, err, ErrSpecFrozen)
}

func TestParser_Parse_ReparseCollection(t *testing.T) {
	list := NewList[string]()
	spec := newTestSpec(t, WithOption(WithNames("-l"), BindTo(&list)))
	p, err := NewParser(spec)
	require.NoError(t, err)

	first, err := p.Parse([]string{"-l", "a"})
	require.NoError(t, err)
	second, err := p.Parse([]string{"-l", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, list.Values(), "a new parse should not add to the previous list")
	assert.Equal(t, []string{"b"}, OptionValue[*List[string]](second, "l", nil).Values())
	assert.Equal(t, []string{"a"}, OptionValue[*List[string]](first, "l", nil).Values(), "an earlier result should keep its values")

	got := OptionValue[*List[string]](second, "l", nil)
	require.NoError(t, got.Add("injected"))
	assert.Equal(t, []string{"b"}, OptionValue[*List[string]](second, "l", nil).Values())

	require.NoError(t, list.Add("later"))
	assert.Equal(t, []string{"b"}, OptionValue[*List[string]](second, "l", nil).Values(), "changing the binding should not change the result")
}

func TestParser_Parse_Frozen(t *testing.T) {
	sub := newTestSpec(t)
	spec := newTestSpec(t, WithSubcommand("sub", sub))
	_, err := Parse(spec, nil)
	require.NoError(t, err)

	assert.True(t, sub.IsFrozen(), "subcommands should be frozen with their parent")
	assert.ErrorIs(t, sub.AddSubcommand("other", newTestSpec(t)), ErrSpecFrozen)
	assert.ErrorIs(t, spec.MixinStandardHelpOptions(true), ErrSpecFrozen)
}

func TestParser_Parse_Defaults(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("--level"), WithTypeOf[int](), WithDefaultValue("3")),
		WithOption(WithNames("--ids"), WithTypeOf[[]int](), WithSplit(","), WithDefaultValue("1,2")),
		WithPositional(WithIndex("0"), WithDefaultValue("input.txt")),
	)

	result, err := Parse(spec, nil)
	require.NoError(t, err)
	assert.False(t, result.HasMatchedOption("--level"), "defaults should not count as matches")

	value, err := spec.FindOption("level").Value()
	require.NoError(t, err)
	assert.Equal(t, 3, value)
	value, err = spec.FindOption("ids").Value()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, value)
	value, err = spec.Positionals()[0].Value()
	require.NoError(t, err)
	assert.Equal(t, "input.txt", value)

	result, err = Parse(spec, []string{"--ids", "7", "given.txt"})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, result.MatchedOptionValue("ids", nil), "a match should replace the default")
	assert.Equal(t, "given.txt", result.MatchedPositionalValue(0, ""))
}

func TestParser_Parse_EndOfOptions(t *testing.T) {
	sub := newTestSpec(t)
	spec := newTestSpec(t,
		WithOption(WithNames("-v")),
		WithPositional(WithIndex("0..*")),
		WithSubcommand("sub", sub),
	)

	result, err := Parse(spec, []string{"-v", "--", "-v", "--", "sub"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-v", "--", "sub"}, result.MatchedPositionalValue(0, nil))
	assert.False(t, result.HasSubcommand())
	assert.Len(t, result.MatchedOptions(), 1)

	custom := newTestSpec(t,
		WithBehavior(WithEndOfOptions("---")),
		WithOption(WithNames("-v")),
		WithPositional(WithIndex("0..*")),
	)
	result, err = Parse(custom, []string{"---", "-v"})
	require.NoError(t, err)
	assert.False(t, result.HasMatchedOption("-v"))
	assert.Equal(t, []string{"-v"}, result.MatchedPositionalValue(0, nil))
}

func TestParser_Parse_ClusteredShortOptions(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		clustered bool
		wantA     bool
		wantB     bool
		wantC     string
		wantErr   error
	}{
		{name: "flags", args: []string{"-ab"}, clustered: true, wantA: true, wantB: true},
		{name: "flags and attached value", args: []string{"-abcvalue"}, clustered: true, wantA: true, wantB: true, wantC: "value"},
		{name: "flag then option with separate value", args: []string{"-ac", "value"}, clustered: true, wantA: true, wantC: "value"},
		{name: "attached value with separator", args: []string{"-c=value"}, clustered: true, wantC: "value"},
		{name: "unknown member", args: []string{"-az"}, clustered: true, wantErr: ErrUnmatchedArgument},
		{name: "disabled", args: []string{"-ab"}, clustered: false, wantErr: ErrUnmatchedArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := newTestSpec(t,
				WithBehavior(SetClusteredShortOptions(tt.clustered)),
				WithOption(WithNames("-a")),
				WithOption(WithNames("-b")),
				WithOption(WithNames("-c"), WithArity("1")),
			)

			result, err := Parse(spec, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, result.HasMatchedOption("-a"))
			assert.Equal(t, tt.wantB, result.HasMatchedOption("-b"))
			assert.Equal(t, tt.wantC, OptionValue(result, "-c", ""))
		})
	}
}

func TestParser_Parse_ClusterWithUnknownMember(t *testing.T) {
	var verbose bool
	spec := newTestSpec(t, WithOption(WithNames("-v"), BindTo(&verbose)))

	_, err := Parse(spec, []string{"-vz"})
	var unmatched *UnmatchedArgumentError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, []string{"-vz"}, unmatched.Unmatched)
	assert.Contains(t, err.Error(), "'-vz'")
	assert.False(t, verbose, "no member of a rejected cluster should be applied")

	lenient := newTestSpec(t,
		WithBehavior(AllowUnmatchedArguments(true)),
		WithOption(WithNames("-v")),
		WithOption(WithNames("-w")),
	)
	result, err := Parse(lenient, []string{"-vwz", "-vw"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-vwz"}, result.Unmatched())
	assert.True(t, result.HasMatchedOption("-v"))
	assert.True(t, result.HasMatchedOption("-w"))
	assert.Len(t, result.MatchedOptions(), 2, "only the complete cluster should match")
}

func TestParser_Parse_FlagValues(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("--verbose")),
		WithOption(WithNames("--count"), WithTypeOf[int](), WithArity("0")),
		WithOption(WithNames("--color"), WithTypeOf[string](), WithArity("0..1")),
	)

	result, err := Parse(spec, []string{"--verbose=false"})
	require.NoError(t, err)
	assert.Equal(t, false, result.MatchedOptionValue("verbose", true))
	assert.Equal(t, []string{"false"}, result.StringValues(spec.FindOption("verbose")))

	result, err = Parse(spec, []string{"--verbose"})
	require.NoError(t, err)
	assert.Equal(t, true, result.MatchedOptionValue("verbose", false))
	assert.Empty(t, result.StringValues(spec.FindOption("verbose")), "implicit values are not typed by the user")

	_, err = Parse(spec, []string{"--count=3"})
	var unmatched *UnmatchedArgumentError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, []string{"--count=3"}, unmatched.Unmatched)

	result, err = Parse(spec, []string{"--color"})
	require.NoError(t, err)
	assert.True(t, result.HasMatchedOption("--color"))
	assert.Equal(t, "", result.MatchedOptionValue("color", "unset"))

	result, err = Parse(spec, []string{"--color", "auto"})
	require.NoError(t, err)
	assert.Equal(t, "auto", result.MatchedOptionValue("color", ""))
}

func TestParser_Parse_Arity(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("--pair"), WithArity("2"), WithTypeOf[[]string]()),
		WithOption(WithNames("--many"), WithArity("1..*"), WithTypeOf[[]string]()),
		WithOption(WithNames("-q")),
		WithSubcommand("sub", newTestSpec(t)),
	)

	result, err := Parse(spec, []string{"--pair", "a", "b", "--many", "x", "y", "-q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.MatchedOptionValue("pair", nil))
	assert.Equal(t, []string{"x", "y"}, result.MatchedOptionValue("many", nil))
	assert.True(t, result.HasMatchedOption("q"))

	result, err = Parse(spec, []string{"--many", "x", "sub"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, result.MatchedOptionValue("many", nil), "subcommand names end optional values")
	assert.True(t, result.HasSubcommand())

	_, err = Parse(spec, []string{"--pair", "a"})
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "--pair", missing.Missing[0].(*OptionSpec).LongestName())

	_, err = Parse(spec, []string{"--pair", "a", "-q"})
	assert.ErrorIs(t, err, ErrMissingParameter, "an option cannot be the value of another")
	_, err = Parse(spec, []string{"--pair", "a", "--"})
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestParser_Parse_NegativeNumbers(t *testing.T) {
	spec := newTestSpec(t,
		WithOption(WithNames("--offset"), WithTypeOf[int]()),
		WithOption(WithNames("--scale"), WithTypeOf[[]float64](), WithArity("1..*")),
		WithPositional(WithIndex("0"), WithTypeOf[int]()),
	)

	result, err := Parse(spec, []string{"--offset", "-5", "--scale", "1.5", "-2.5", "-7"})
	require.NoError(t, err)
	assert.Equal(t, -5, result.MatchedOptionValue("offset", 0))
	assert.Equal(t, []float64{1.5, -2.5, -7}, result.MatchedOptionValue("scale", nil))

	result, err = Parse(spec, []string{"-3"})
	require.NoError(t, err)
	assert.Equal(t, -3, PositionalValue(result, 0, 0))
}

func TestParser_Parse_CaseInsensitive(t *testing.T) {
	spec := newTestSpec(t,
		WithBehavior(SetCaseInsensitiveOptions(true)),
		WithOption(WithNames("--verbose")),
		WithOption(WithNames("--Name"), WithArity("1")),
	)

	result, err := Parse(spec, []string{"--VERBOSE", "--name=x"})
	require.NoError(t, err)
	assert.True(t, result.HasMatchedOption("--verbose"))
	assert.Equal(t, "x", result.MatchedOptionValue("--Name", ""))

	strict := newTestSpec(t, WithOption(WithNames("--verbose")))
	_, err = Parse(strict, []string{"--VERBOSE"})
	assert.ErrorIs(t, err, ErrUnmatchedArgument)
}

func TestParser_Parse_Prefixes(t *testing.T) {
	spec := newTestSpec(t,
		WithBehavior(WithPrefixes("/", "-", "--"), WithSeparator(":")),
		WithOption(WithNames("/out", "--out"), WithArity("1")),
		WithOption(WithNames("-q")),
	)

	result, err := Parse(spec, []string{"/out:file.txt", "-q"})
	require.NoError(t, err)
	assert.Equal(t, "file.txt", result.MatchedOptionValue("out", ""))
	assert.True(t, result.HasMatchedOption("q"))

	_, err = NewCommandSpec(WithOption(WithNames("out")))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParser_Parse_Unmatched(t *testing.T) {
	spec := newTestSpec(t, WithOption(WithNames("-v")))

	_, err := Parse(spec, []string{"-v", "extra"})
	var unmatched *UnmatchedArgumentError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, []string{"extra"}, unmatched.Unmatched)
	assert.Contains(t, err.Error(), "'extra'")

	lenient := newTestSpec(t,
		WithBehavior(AllowUnmatchedArguments(true)),
		WithOption(WithNames("-v")),
	)
	result, err := Parse(lenient, []string{"extra", "-v", "--unknown"})
	require.NoError(t, err)
	assert.Equal(t, []string{"extra", "--unknown"}, result.Unmatched())
	assert.True(t, result.HasMatchedOption("-v"))
}

func TestParser_Parse_UnmatchedOptionsArePositionals(t *testing.T) {
	spec := newTestSpec(t,
		WithBehavior(TreatUnmatchedOptionsAsPositionals(true)),
		WithOption(WithNames("-v")),
		WithPositional(WithIndex("0..*")),
	)

	result, err := Parse(spec, []string{"--unknown", "-v", "file"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--unknown", "file"}, result.MatchedPositionalValue(0, nil))
}

func TestParser_Parse_PositionalRanges(t *testing.T) {
	spec := newTestSpec(t,
		WithPositional(WithIndex("0"), WithParamLabel("<src>")),
		WithPositional(WithIndex("1..2"), WithTypeOf[[]int]()),
	)

	result, err := Parse(spec, []string{"a", "1", "2"})
	require.NoError(t, err)
	assert.Equal(t, "<src>", result.MatchedPositional(0).ParamLabel())
	assert.Equal(t, []int{1, 2}, result.MatchedPositionalValue(1, nil))
	assert.Same(t, result.MatchedPositional(1), result.MatchedPositional(2))

	_, err = Parse(spec, []string{"a", "1", "2", "3"})
	assert.ErrorIs(t, err, ErrUnmatchedArgument)
}

func TestParser_Parse_SingleIndexPositionals(t *testing.T) {
	spec := newTestSpec(t,
		WithPositional(WithIndex("0")),
		WithPositional(WithIndex("1")),
		WithPositional(WithIndex("2")),
	)

	result, err := Parse(spec, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "a", result.MatchedPositionalValue(0, nil))
	assert.Equal(t, "b", result.MatchedPositionalValue(1, nil))
	assert.Equal(t, "c", result.MatchedPositionalValue(2, nil))
	assert.Equal(t, "c", PositionalValue[string](result, 2, ""))
}

func TestParser_Parse_PositionalBeforeSubcommand(t *testing.T) {
	spec := newTestSpec(t,
		WithPositional(WithIndex("0")),
		WithSubcommand("run", newTestSpec(t)),
	)

	result, err := Parse(spec, []string{"run", "run"})
	require.NoError(t, err)
	assert.Equal(t, "run", result.MatchedPositionalValue(0, ""), "a positional whose range covers the index is matched first")
	assert.True(t, result.HasSubcommand())
}

func TestParser_Parse_TypeConversionError(t *testing.T) {
	sub := newTestSpec(t, WithOption(WithNames("-n"), WithTypeOf[int]()))
	spec := newTestSpec(t, WithSubcommand("sub", sub))

	_, err := Parse(spec, []string{"sub", "-n", "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeConversion)

	var conversion *TypeConversionError
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "abc", conversion.Value)
	assert.Equal(t, "int", conversion.Target.String())
	assert.Same(t, sub.FindOption("-n"), conversion.Arg)
	assert.Same(t, sub, CommandOf(err), "the error should carry the frame it occurred in")
	assert.Contains(t, err.Error(), "option '-n'")
}

func TestParser_Parse_BindingAccessError(t *testing.T) {
	failure := errors.New("read-only")
	spec := newTestSpec(t, WithOption(
		WithNames("--name"),
		WithTypeOf[string](),
		WithBinding(BindFuncs(
			func() (string, error) { return "", nil },
			func(string) error { return failure },
		)),
	))

	_, err := Parse(spec, []string{"--name", "x"})
	assert.ErrorIs(t, err, ErrBindingAccess)
	assert.ErrorIs(t, err, failure, "the cause should be preserved")
	var access *BindingAccessError
	require.ErrorAs(t, err, &access)
	assert.Same(t, spec.FindOption("name"), access.Arg)
}

func TestParser_Parse_BindToField(t *testing.T) {
	type config struct {
		DryRun bool
		Tags   []string
		Level  int
	}
	cfg := &config{Level: 1}

	spec := newTestSpec(t,
		WithOption(WithNames("--dry-run"), BindToField(cfg, "--dry-run")),
		WithOption(WithNames("-t", "--tags"), BindToField(cfg, "Tags"), WithSplit(",")),
		WithOption(WithNames("--level"), BindToField(cfg, "level")),
	)

	_, err := Parse(spec, []string{"--dry-run", "-t", "a,b", "--level", "4"})
	require.NoError(t, err)
	assert.Equal(t, &config{DryRun: true, Tags: []string{"a", "b"}, Level: 4}, cfg)
}

func TestParser_Parse_AtFiles(t *testing.T) {
	files := map[string]string{
		"args.txt":   "-v --name 'John Doe' # comment\n@more.txt",
		"more.txt":   "pos1",
		"cycle1.txt": "@cycle2.txt",
		"cycle2.txt": "@cycle1.txt",
	}
	reader := func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return []byte(content), nil
	}
	spec := newTestSpec(t,
		WithBehavior(SetExpandAtFiles(true)),
		WithOption(WithNames("-v")),
		WithOption(WithNames("--name"), WithArity("1")),
		WithPositional(WithIndex("0..*")),
	)
	p, err := NewParser(spec, WithFileReader(reader))
	require.NoError(t, err)

	result, err := p.Parse([]string{"@args.txt", "@missing.txt", "@@literal"})
	require.NoError(t, err)
	assert.True(t, result.HasMatchedOption("-v"))
	assert.Equal(t, "John Doe", result.MatchedOptionValue("name", ""))
	assert.Equal(t, []string{"pos1", "@missing.txt", "@literal"}, result.MatchedPositionalValue(0, nil))
	assert.Equal(t, []string{"-v", "--name", "John Doe", "pos1", "@missing.txt", "@literal"}, result.OriginalArgs())

	_, err = p.Parse([]string{"@cycle1.txt"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	plain := newTestSpec(t, WithPositional(WithIndex("0..*")))
	result, err = Parse(plain, []string{"@args.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"@args.txt"}, result.MatchedPositionalValue(0, nil), "expansion should be opt-in")
}

func TestParser_ParseString(t *testing.T) {
	spec := scenarioSpec(t)
	p, err := NewParser(spec)
	require.NoError(t, err)

	result, err := p.ParseString(`-V --file "a file.txt" -n 4,5`)
	require.NoError(t, err)
	assert.True(t, result.HasMatchedOption("verbose"))
	assert.Equal(t, []string{"a file.txt"}, OptionValue[*List[string]](result, "file", nil).Values())
	assert.Equal(t, []int{4, 5}, OptionValue(result, "num", []int(nil)))

	_, err = p.ParseString(`-f "unterminated`)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParser_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	spec := newTestSpec(t,
		WithBehavior(AllowUnmatchedArguments(true)),
		WithOption(WithNames("--verbose")),
		WithSubcommand("sub", newTestSpec(t)),
	)
	p, err := NewParser(spec, WithLogger(logger))
	require.NoError(t, err)

	_, err = p.Parse([]string{"--verbose", "--nope", "sub"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"option":"--verbose"`)
	assert.Contains(t, out, `"message":"matched option"`)
	assert.Contains(t, out, `"message":"unmatched argument"`)
	assert.Contains(t, out, `"subcommand":"sub"`)
}

func TestNewParser(t *testing.T) {
	_, err := NewParser(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	spec := newTestSpec(t)
	_, err = NewParser(spec, WithConverters(nil))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewParser(spec, WithFileReader(nil))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	p, err := NewParser(spec)
	require.NoError(t, err)
	assert.Same(t, spec, p.Spec())
}
