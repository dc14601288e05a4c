package cmdspec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ParseError is the common part of every error reported while building a spec or matching arguments.
// It carries the command frame the error occurred in so callers can show usage for the right
// subcommand.
type ParseError struct {
	Command *CommandSpec
	Message string
	Cause   error
	kind    error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap exposes both the sentinel classifying the error and the original cause
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Frame returns the command the error occurred in
func (e *ParseError) Frame() *CommandSpec {
	return e.Command
}

// DuplicateNameError reports an option, subcommand or mixin name registered twice
type DuplicateNameError struct {
	*ParseError
	Name string
}

// UnmatchedArgumentError reports tokens matching neither an option, a positional parameter nor a subcommand
type UnmatchedArgumentError struct {
	*ParseError
	Unmatched []string
}

// MissingParameterError reports required options or positional parameters which were never matched,
// or an option whose required values are missing
type MissingParameterError struct {
	*ParseError
	Missing []Arg
}

// TypeConversionError reports a value which could not be converted to the type of its option or
// positional parameter
type TypeConversionError struct {
	*ParseError
	Arg    Arg
	Value  string
	Target reflect.Type
}

// BindingAccessError reports a failing getter or setter
type BindingAccessError struct {
	*ParseError
	Arg Arg
}

// CommandOf returns the command frame err occurred in, or nil when err does not carry one
func CommandOf(err error) *CommandSpec {
	var framed interface{ Frame() *CommandSpec }
	if errors.As(err, &framed) {
		return framed.Frame()
	}
	return nil
}

func newParseError(cmd *CommandSpec, kind error, cause error, format string, args ...any) *ParseError {
	return &ParseError{
		Command: cmd,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		kind:    kind,
	}
}

func newDuplicateNameError(cmd *CommandSpec, what, name string) *DuplicateNameError {
	return &DuplicateNameError{
		ParseError: newParseError(cmd, ErrDuplicateName, nil, "%s '%s' is already defined in %s", what, name, describeCommand(cmd)),
		Name:       name,
	}
}

func newUnmatchedArgumentError(cmd *CommandSpec, unmatched ...string) *UnmatchedArgumentError {
	return &UnmatchedArgumentError{
		ParseError: newParseError(cmd, ErrUnmatchedArgument, nil, "unknown argument(s) %s in %s", quoteAll(unmatched), describeCommand(cmd)),
		Unmatched:  unmatched,
	}
}

func newMissingParameterError(cmd *CommandSpec, message string, missing ...Arg) *MissingParameterError {
	return &MissingParameterError{
		ParseError: newParseError(cmd, ErrMissingParameter, nil, "%s", message),
		Missing:    missing,
	}
}

func newTypeConversionError(cmd *CommandSpec, arg Arg, value string, target reflect.Type, cause error) *TypeConversionError {
	return &TypeConversionError{
		ParseError: newParseError(cmd, ErrTypeConversion, cause, "invalid value for %s: '%s'", describeArg(arg), value),
		Arg:        arg,
		Value:      value,
		Target:     target,
	}
}

func newBindingAccessError(cmd *CommandSpec, arg Arg, cause error) *BindingAccessError {
	return &BindingAccessError{
		ParseError: newParseError(cmd, ErrBindingAccess, cause, "could not access the value of %s", describeArg(arg)),
		Arg:        arg,
	}
}

func describeCommand(cmd *CommandSpec) string {
	if cmd == nil || cmd.QualifiedName() == "" {
		return "command"
	}
	return "command '" + cmd.QualifiedName() + "'"
}

func describeArg(arg Arg) string {
	switch a := arg.(type) {
	case *OptionSpec:
		return "option '" + a.LongestName() + "'"
	case *PositionalParamSpec:
		return "positional parameter " + a.String()
	default:
		return "argument"
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
