// Command argspec parses an argument list against a command specification declared in YAML or TOML
// and prints what was matched.
//
//	argspec --spec tool.yaml -- -v --file a.txt build --target linux
//	argspec --spec tool.toml --line '-v --file "a b.txt"'
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/napalu/cmdspec"
	"github.com/napalu/cmdspec/declare"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const version = "argspec 0.1.0"

type Config struct {
	Spec  string
	Line  string
	Usage bool
	Trace bool
	Args  []string
}

var isTerminalFn = term.IsTerminal

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newCLI(cfg *Config) (*cmdspec.CommandSpec, error) {
	return cmdspec.NewCommandSpec(
		cmdspec.WithName("argspec"),
		cmdspec.WithVersion(version),
		cmdspec.WithUsageMessage("parse arguments against a declared command specification"),
		cmdspec.WithOption(cmdspec.WithNames("-s", "--spec"), cmdspec.BindToField(cfg, "Spec"),
			cmdspec.WithParamLabel("<file>"), cmdspec.WithDescription("YAML or TOML specification"), cmdspec.SetRequired(true)),
		cmdspec.WithOption(cmdspec.WithNames("-l", "--line"), cmdspec.BindToField(cfg, "Line"),
			cmdspec.WithParamLabel("<args>"), cmdspec.WithDescription("parse a shell-quoted argument string instead")),
		cmdspec.WithOption(cmdspec.WithNames("-u", "--usage"), cmdspec.BindToField(cfg, "Usage"),
			cmdspec.WithDescription("print the usage of the declared command")),
		cmdspec.WithOption(cmdspec.WithNames("-t", "--trace"), cmdspec.BindToField(cfg, "Trace"),
			cmdspec.WithDescription("log matching decisions to stderr")),
		cmdspec.WithPositional(cmdspec.WithIndex("0..*"), cmdspec.BindToField(cfg, "Args"),
			cmdspec.WithParamLabel("<arg>"), cmdspec.WithDescription("arguments to parse, after --")),
		cmdspec.WithStandardHelpOptions(),
	)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := &Config{}
	cli, err := newCLI(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := cmdspec.Parse(cli, args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if result.IsUsageHelpRequested() {
		fmt.Fprint(stdout, cmdspec.Usage(cmdspec.NewRenderer(), cli))
		return 0
	}
	if result.IsVersionHelpRequested() {
		fmt.Fprintln(stdout, version)
		return 0
	}

	decl, err := declare.Load(cfg.Spec)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	spec, err := decl.Build()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.Usage {
		fmt.Fprint(stdout, cmdspec.Usage(cmdspec.NewRenderer(), spec))
		return 0
	}

	logger := zerolog.Nop()
	if cfg.Trace {
		logger = newLogger(stderr)
	}
	parser, err := cmdspec.NewParser(spec, cmdspec.WithLogger(logger), cmdspec.WithFileReader(os.ReadFile))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Line != "" {
		result, err = parser.ParseString(cfg.Line)
	} else {
		result, err = parser.Parse(cfg.Args)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if cmd := cmdspec.CommandOf(err); cmd != nil {
			fmt.Fprint(stderr, cmdspec.Usage(cmdspec.NewRenderer(), cmd))
		}
		return 1
	}

	for _, frame := range result.Frames() {
		switch {
		case frame.IsUsageHelpRequested():
			fmt.Fprint(stdout, cmdspec.Usage(cmdspec.NewRenderer(), frame.CommandSpec()))
			return 0
		case frame.IsVersionHelpRequested():
			for _, line := range frame.CommandSpec().Root().Version() {
				fmt.Fprintln(stdout, line)
			}
			return 0
		}
	}

	newPrinter(stdout).print(result, 0)
	return 0
}

func newLogger(w io.Writer) zerolog.Logger {
	if isTerminal(w) {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminalFn(int(f.Fd()))
}

type printer struct {
	w       io.Writer
	command *color.Color
	option  *color.Color
	value   *color.Color
	warning *color.Color
}

func newPrinter(w io.Writer) *printer {
	p := &printer{
		w:       w,
		command: color.New(color.FgCyan, color.Bold),
		option:  color.New(color.FgGreen),
		value:   color.New(color.FgYellow),
		warning: color.New(color.FgRed),
	}
	if !isTerminal(w) {
		for _, c := range []*color.Color{p.command, p.option, p.value, p.warning} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) print(r *cmdspec.ParseResult, depth int) {
	indent := strings.Repeat("  ", depth)
	p.command.Fprintln(p.w, indent+r.CommandSpec().QualifiedName())

	seen := map[*cmdspec.OptionSpec]bool{}
	for _, opt := range r.MatchedOptions() {
		if seen[opt] {
			continue
		}
		seen[opt] = true
		fmt.Fprint(p.w, indent+"  ")
		p.option.Fprint(p.w, opt.LongestName())
		fmt.Fprint(p.w, " = ")
		p.value.Fprintln(p.w, render(r, opt))
	}
	for _, m := range r.MatchedPositionals() {
		fmt.Fprint(p.w, indent+"  ")
		p.option.Fprintf(p.w, "[%d]", m.Index)
		fmt.Fprint(p.w, " = ")
		p.value.Fprintln(p.w, m.Value)
	}
	if unmatched := r.Unmatched(); len(unmatched) > 0 {
		p.warning.Fprintf(p.w, "%s  unmatched: %s\n", indent, strings.Join(unmatched, " "))
	}

	if sub, ok := r.Subcommand(); ok {
		p.print(sub, depth+1)
	}
}

func render(r *cmdspec.ParseResult, arg cmdspec.Arg) string {
	if values := r.StringValues(arg); len(values) > 0 {
		return strings.Join(values, " ")
	}
	return fmt.Sprint(r.Value(arg))
}
