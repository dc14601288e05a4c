// Copyright 2021-2024, Florent Heyworth. All rights reserved.
// Use of this source code is governed by the MIT licensee
// which can be found in the LICENSE file.

// Package cmdspec provides specification-driven command-line processing.
//
// A CommandSpec declares options, positional parameters and subcommands. A Parser matches an argument
// list against it, converts matched text to typed values, stores them through each argument's Binding
// and returns a ParseResult tree mirroring the subcommands actually invoked.
//
// Values of options and positional parameters accumulate according to their type:
//
//	Scalar - each match overwrites the previous value
//	Array - a Go slice, re-allocated one element longer on each match
//	Collection - a pointer to a type implementing Collection (List, OrderedSet), added to in place
//	Map - a Go map receiving KEY=VALUE pairs
//
// Subcommands may be nested to any depth. Once a subcommand name is matched every remaining token
// belongs to the subcommand.
package cmdspec

import (
	"fmt"
	"os"

	"github.com/napalu/cmdspec/convert"
	"github.com/napalu/cmdspec/parse"
	"github.com/rs/zerolog"
)

// NewParser returns a Parser for spec, configured with configs. By default values are converted with
// convert.Default() and nothing is logged.
func NewParser(spec *CommandSpec, configs ...ConfigureParserFunc) (*Parser, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil command spec", ErrInvalidArgument)
	}

	p := &Parser{
		spec:       spec,
		converters: convert.Default(),
		logger:     zerolog.Nop(),
		readFile:   os.ReadFile,
	}
	var err error
	for _, config := range configs {
		config(p, &err)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse matches spec against args with a default Parser
func Parse(spec *CommandSpec, args []string) (*ParseResult, error) {
	p, err := NewParser(spec)
	if err != nil {
		return nil, err
	}

	return p.Parse(args)
}

// Spec returns the command the parser matches against
func (p *Parser) Spec() *CommandSpec {
	return p.spec
}

// Parse matches args (without the program name) against the parser's CommandSpec. The spec is frozen by
// the first call; later calls restore every binding to the value it held when its argument was built
// before matching.
//
// The first error aborts the parse. Errors are one of *DuplicateNameError, *UnmatchedArgumentError,
// *MissingParameterError, *TypeConversionError or *BindingAccessError, or a *ParseError when
// argument files cannot be expanded.
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	reparse := p.spec.freeze()

	if p.spec.behavior.expandAtFiles {
		expanded, err := parse.ExpandAtFiles(args, p.readFile)
		if err != nil {
			return nil, newParseError(p.spec, ErrInvalidArgument, err, "could not expand argument files")
		}
		args = expanded
	}

	p.logger.Debug().
		Str("command", p.spec.QualifiedName()).
		Strs("args", args).
		Msg("parsing")

	root := p.newFrame(p.spec, parse.NewState(args), args, reparse)
	if err := root.run(); err != nil {
		p.logger.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	if err := validateRequired(root.result); err != nil {
		p.logger.Debug().Err(err).Msg("parse failed")
		return nil, err
	}

	return root.result, nil
}

// ParseString splits argString using shell quoting rules and calls Parse
func (p *Parser) ParseString(argString string) (*ParseResult, error) {
	args, err := parse.Split(argString)
	if err != nil {
		return nil, newParseError(p.spec, ErrInvalidArgument, err, "could not split '%s'", argString)
	}

	return p.Parse(args)
}
