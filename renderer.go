package cmdspec

import (
	"fmt"
	"strings"
)

// Renderer produces the one-line descriptions help printers are built from
type Renderer interface {
	OptionUsage(opt *OptionSpec) string
	PositionalUsage(pos *PositionalParamSpec) string
	CommandUsage(cmd *CommandSpec) string
}

type DefaultRenderer struct{}

func NewRenderer() *DefaultRenderer {
	return &DefaultRenderer{}
}

// OptionUsage generates a usage string for an option.
// The usage string includes the option names, the parameter label, description,
// default value (if any), and whether the option is required or optional.
func (r *DefaultRenderer) OptionUsage(opt *OptionSpec) string {
	usage := strings.Join(opt.names, ", ")
	if opt.paramLabel != "" {
		usage += " " + opt.paramLabel
	}

	return usage + r.describe(&opt.ArgSpec)
}

// PositionalUsage generates a usage string for a positional parameter
func (r *DefaultRenderer) PositionalUsage(pos *PositionalParamSpec) string {
	return pos.String() + r.describe(&pos.ArgSpec)
}

// CommandUsage generates a usage string for a command: its qualified name, aliases and usage message
func (r *DefaultRenderer) CommandUsage(cmd *CommandSpec) string {
	usage := cmd.QualifiedName()
	if len(cmd.aliases) > 0 {
		usage += " (" + strings.Join(cmd.aliases, ", ") + ")"
	}
	if cmd.usageMessage != "" {
		usage += " \"" + cmd.usageMessage + "\""
	}

	return usage
}

func (r *DefaultRenderer) describe(a *ArgSpec) string {
	var usage string
	if a.description != "" {
		usage += " \"" + a.description + "\""
	}
	if a.defaultValue != "" {
		usage += fmt.Sprintf(" (defaults to: %s)", a.defaultValue)
	}
	if a.required {
		return usage + " (required)"
	}

	return usage + " (optional)"
}

// Usage lists the visible options, positional parameters and subcommands of cmd, one per line
func Usage(r Renderer, cmd *CommandSpec) string {
	var sb strings.Builder
	sb.WriteString(r.CommandUsage(cmd))
	sb.WriteString("\n")
	for _, opt := range cmd.options {
		if !opt.hidden {
			sb.WriteString("  " + r.OptionUsage(opt) + "\n")
		}
	}
	for _, pos := range cmd.positionals {
		if !pos.hidden {
			sb.WriteString("  " + r.PositionalUsage(pos) + "\n")
		}
	}
	for _, sub := range cmd.Subcommands() {
		sb.WriteString("  " + r.CommandUsage(sub) + "\n")
	}

	return sb.String()
}
