package cmdspec

import (
	"fmt"

	"github.com/napalu/cmdspec/convert"
	"github.com/napalu/cmdspec/parse"
	"github.com/rs/zerolog"
)

// WithConverters sets the registry used to convert matched values
func WithConverters(converters *convert.Registry) ConfigureParserFunc {
	return func(parser *Parser, err *error) {
		if converters == nil {
			*err = fmt.Errorf("%w: nil converter registry", ErrInvalidArgument)
			return
		}
		parser.converters = converters
	}
}

// WithLogger sets the logger receiving debug events for matched and unmatched tokens
func WithLogger(logger zerolog.Logger) ConfigureParserFunc {
	return func(parser *Parser, err *error) {
		parser.logger = logger
	}
}

// WithFileReader sets how argument files ("@file") are read when the command expands them
func WithFileReader(reader parse.FileReader) ConfigureParserFunc {
	return func(parser *Parser, err *error) {
		if reader == nil {
			*err = fmt.Errorf("%w: nil file reader", ErrInvalidArgument)
			return
		}
		parser.readFile = reader
	}
}
