package cmdspec

import "github.com/napalu/cmdspec/internal/util"

// WithName sets the name for the command. Subcommands are renamed to the name they are registered under.
func WithName(name string) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		command.name = name
	}
}

// WithAliases sets alternative names under which the command is found as a subcommand. Aliases must be
// set before the command is added to its parent.
func WithAliases(aliases ...string) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		command.aliases = util.Clone(aliases)
	}
}

// WithVersion sets the version information of the command, one entry per line
func WithVersion(lines ...string) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		command.version = util.Clone(lines)
	}
}

// WithUsageMessage sets the usage text of the command. Mixins append their own usage text to it.
func WithUsageMessage(message string) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		command.usageMessage = message
	}
}

// WithBehavior adjusts how tokens are matched in this command's frame
func WithBehavior(configs ...ConfigureBehaviorFunc) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		for _, config := range configs {
			config(command.behavior)
		}
	}
}

// WithOptions adds options to the command
func WithOptions(options ...*OptionSpec) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		for _, opt := range options {
			if *err = command.AddOption(opt); *err != nil {
				return
			}
		}
	}
}

// WithOption builds an option from configs and adds it to the command
func WithOption(configs ...ConfigureArgumentFunc) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		opt, e := NewOptionWith(configs...)
		if e != nil {
			*err = e
			return
		}
		*err = command.AddOption(opt)
	}
}

// WithPositionals adds positional parameters to the command
func WithPositionals(positionals ...*PositionalParamSpec) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		for _, pos := range positionals {
			if *err = command.AddPositional(pos); *err != nil {
				return
			}
		}
	}
}

// WithPositional builds a positional parameter from configs and adds it to the command
func WithPositional(configs ...ConfigureArgumentFunc) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		pos, e := NewPositionalWith(configs...)
		if e != nil {
			*err = e
			return
		}
		*err = command.AddPositional(pos)
	}
}

// WithSubcommand registers child under name
func WithSubcommand(name string, child *CommandSpec) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		*err = command.AddSubcommand(name, child)
	}
}

// WithMixin merges other into the command under name
func WithMixin(name string, other *CommandSpec) ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		*err = command.AddMixin(name, other)
	}
}

// WithStandardHelpOptions adds -h/--help and -V/--version
func WithStandardHelpOptions() ConfigureCommandFunc {
	return func(command *CommandSpec, err *error) {
		*err = command.MixinStandardHelpOptions(true)
	}
}
