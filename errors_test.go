package cmdspec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	cmd := newTestSpec(t, WithName("tool"))
	cause := errors.New("cause")

	err := newParseError(cmd, ErrInvalidArgument, cause, "something %s", "failed")
	assert.EqualError(t, err, "something failed: cause")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, cmd, err.Frame())

	plain := newParseError(cmd, ErrInvalidArgument, nil, "plain")
	assert.EqualError(t, plain, "plain")
	assert.Len(t, plain.Unwrap(), 1)
}

func TestCommandOf(t *testing.T) {
	cmd := newTestSpec(t, WithName("tool"))

	tests := []struct {
		name string
		err  error
		want *CommandSpec
	}{
		{name: "duplicate name", err: newDuplicateNameError(cmd, "option", "-a"), want: cmd},
		{name: "unmatched", err: newUnmatchedArgumentError(cmd, "x"), want: cmd},
		{name: "wrapped", err: fmt.Errorf("context: %w", newMissingParameterError(cmd, "missing")), want: cmd},
		{name: "foreign error", err: errors.New("other"), want: nil},
		{name: "nil", err: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommandOf(tt.err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cmd := newTestSpec(t, WithName("tool"))
	sub := newTestSpec(t)
	require.NoError(t, cmd.AddSubcommand("run", sub))
	opt := mustOption(t, WithNames("-n", "--num"), WithTypeOf[int]())

	assert.EqualError(t, newDuplicateNameError(sub, "option", "-n"), "option '-n' is already defined in command 'tool run'")
	assert.EqualError(t, newUnmatchedArgumentError(cmd, "a", "b"), "unknown argument(s) 'a', 'b' in command 'tool'")
	assert.EqualError(t, newTypeConversionError(cmd, opt, "x", opt.Type(), errors.New("bad")), "invalid value for option '--num': 'x': bad")
	assert.EqualError(t, newBindingAccessError(cmd, opt, errors.New("denied")), "could not access the value of option '--num': denied")
	assert.Equal(t, "command", describeCommand(newTestSpec(t)))
}
