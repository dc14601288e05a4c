package cmdspec

import (
	"fmt"
	"strings"

	"github.com/napalu/cmdspec/internal/util"
	"github.com/napalu/cmdspec/types/orderedmap"
)

// NewCommandSpec creates and returns a new CommandSpec. This function takes variadic `ConfigureCommandFunc`
// functions to customize the created command. Configuration functions run in order, so behavior
// changes affecting option names (such as prefixes) must precede the options they apply to.
func NewCommandSpec(configs ...ConfigureCommandFunc) (*CommandSpec, error) {
	cmd := newCommandSpec()
	if err := cmd.Set(configs...); err != nil {
		return nil, err
	}

	return cmd, nil
}

func newCommandSpec() *CommandSpec {
	return &CommandSpec{
		optionsByName: map[string]*OptionSpec{},
		subcommands:   orderedmap.NewOrderedMap[string, *CommandSpec](),
		mixins:        orderedmap.NewOrderedMap[string, *CommandSpec](),
		behavior:      NewParserBehavior(),
	}
}

// Set is a helper config function that allows setting multiple configuration functions on a command.
func (c *CommandSpec) Set(configs ...ConfigureCommandFunc) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	var err error
	for _, config := range configs {
		config(c, &err)
		if err != nil {
			return err
		}
	}
	return nil
}

// AddOption registers opt. A name already owned by another option is a DuplicateNameError unless
// overwritten options are allowed, in which case the prior owner is removed.
func (c *CommandSpec) AddOption(opt *OptionSpec) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if opt == nil {
		return fmt.Errorf("%w: nil option", ErrInvalidArgument)
	}
	if err := c.checkOption(opt); err != nil {
		return err
	}
	c.putOption(opt)

	return nil
}

// AddPositional registers a positional parameter. Positionals are matched in registration order.
func (c *CommandSpec) AddPositional(pos *PositionalParamSpec) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if pos == nil {
		return fmt.Errorf("%w: nil positional parameter", ErrInvalidArgument)
	}
	c.positionals = append(c.positionals, pos)

	return nil
}

// AddSubcommand registers child under name and under each of the child's aliases
func (c *CommandSpec) AddSubcommand(name string, child *CommandSpec) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if name == "" || child == nil {
		return fmt.Errorf("%w: a subcommand needs a name and a spec", ErrInvalidArgument)
	}
	for p := c; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: '%s' would make %s its own subcommand", ErrInvalidArgument, name, describeCommand(child))
		}
	}

	names := append([]string{name}, child.aliases...)
	for _, n := range names {
		if c.subcommands.Has(n) {
			return newDuplicateNameError(c, "subcommand", n)
		}
	}

	child.name = name
	child.parent = c
	for _, n := range names {
		c.subcommands.Set(n, child)
	}

	return nil
}

// AddMixin merges the options, positionals and subcommands of other into c. The usage message of other
// is appended to c's; name and version are taken from other only when c has none.
func (c *CommandSpec) AddMixin(name string, other *CommandSpec) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if name == "" || other == nil || other == c {
		return fmt.Errorf("%w: a mixin needs a name and a spec other than the command itself", ErrInvalidArgument)
	}
	if c.mixins.Has(name) {
		return newDuplicateNameError(c, "mixin", name)
	}

	claimed := map[string]bool{}
	for _, opt := range other.options {
		if err := c.checkOption(opt); err != nil {
			return err
		}
		for _, n := range opt.names {
			if claimed[n] && !c.behavior.overwrittenOptionsAllowed {
				return newDuplicateNameError(c, "option", n)
			}
			claimed[n] = true
		}
	}
	for it := other.subcommands.Front(); it != nil; it = it.Next() {
		if c.subcommands.Has(*it.Key) {
			return newDuplicateNameError(c, "subcommand", *it.Key)
		}
		for p := c; p != nil; p = p.parent {
			if p == it.Value {
				return fmt.Errorf("%w: '%s' would make %s its own subcommand", ErrInvalidArgument, *it.Key, describeCommand(p))
			}
		}
	}

	for _, opt := range other.options {
		c.putOption(opt)
	}
	c.positionals = append(c.positionals, other.positionals...)
	for it := other.subcommands.Front(); it != nil; it = it.Next() {
		it.Value.parent = c
		c.subcommands.Set(*it.Key, it.Value)
	}

	switch {
	case c.usageMessage == "":
		c.usageMessage = other.usageMessage
	case other.usageMessage != "":
		c.usageMessage += "\n" + other.usageMessage
	}
	if c.name == "" {
		c.name = other.name
	}
	if len(c.version) == 0 {
		c.version = util.Clone(other.version)
	}
	c.mixins.Set(name, other)

	return nil
}

// MixinStandardHelpOptions adds (true) or removes (false) the mixin providing -h/--help and -V/--version
func (c *CommandSpec) MixinStandardHelpOptions(enabled bool) error {
	if err := c.checkMutable(); err != nil {
		return err
	}

	mixin, exists := c.mixins.Get(mixinStandardHelpOptions)
	switch {
	case enabled && !exists:
		help, err := standardHelpOptions()
		if err != nil {
			return err
		}
		return c.AddMixin(mixinStandardHelpOptions, help)
	case !enabled && exists:
		for _, opt := range mixin.options {
			c.removeOption(opt)
		}
		c.mixins.Delete(mixinStandardHelpOptions)
	}

	return nil
}

func standardHelpOptions() (*CommandSpec, error) {
	help, err := NewOptionWith(
		WithNames("-h", "--help"),
		WithDescription("Show this help message and exit."),
		SetUsageHelp(true),
	)
	if err != nil {
		return nil, err
	}
	version, err := NewOptionWith(
		WithNames("-V", "--version"),
		WithDescription("Print version information and exit."),
		SetVersionHelp(true),
	)
	if err != nil {
		return nil, err
	}

	return NewCommandSpec(WithOptions(help, version))
}

// FindOption returns the option registered under name. name may omit the prefix: "f" finds "-f" and
// "file" finds "--file" with the default prefix.
func (c *CommandSpec) FindOption(name string) *OptionSpec {
	if opt := c.lookupOption(name); opt != nil {
		return opt
	}
	for _, p := range c.behavior.prefixes {
		if opt := c.lookupOption(p + name); opt != nil {
			return opt
		}
		if opt := c.lookupOption(p + p + name); opt != nil {
			return opt
		}
	}

	return nil
}

// lookupOption resolves a complete option name exactly, then case-insensitively if enabled
func (c *CommandSpec) lookupOption(name string) *OptionSpec {
	if opt, ok := c.optionsByName[name]; ok {
		return opt
	}
	if !c.behavior.caseInsensitiveOptions {
		return nil
	}
	for _, opt := range c.options {
		for _, n := range opt.names {
			if strings.EqualFold(n, name) {
				return opt
			}
		}
	}

	return nil
}

// Name returns the name of the command
func (c *CommandSpec) Name() string {
	return c.name
}

// QualifiedName returns the names of the command and its parents, separated by spaces
func (c *CommandSpec) QualifiedName() string {
	var names []string
	for p := c; p != nil; p = p.parent {
		if p.name != "" {
			names = append([]string{p.name}, names...)
		}
	}
	return strings.Join(names, " ")
}

func (c *CommandSpec) Aliases() []string {
	return util.Clone(c.aliases)
}

// Version returns the version lines of the command
func (c *CommandSpec) Version() []string {
	return util.Clone(c.version)
}

func (c *CommandSpec) UsageMessage() string {
	return c.usageMessage
}

// Options returns the options in registration order
func (c *CommandSpec) Options() []*OptionSpec {
	return util.Clone(c.options)
}

// Positionals returns the positional parameters in registration order
func (c *CommandSpec) Positionals() []*PositionalParamSpec {
	return util.Clone(c.positionals)
}

// Args returns the options followed by the positional parameters
func (c *CommandSpec) Args() []Arg {
	args := make([]Arg, 0, len(c.options)+len(c.positionals))
	for _, opt := range c.options {
		args = append(args, opt)
	}
	for _, pos := range c.positionals {
		args = append(args, pos)
	}
	return args
}

// Subcommand returns the subcommand registered under name or one of its aliases
func (c *CommandSpec) Subcommand(name string) (*CommandSpec, bool) {
	return c.subcommands.Get(name)
}

// SubcommandNames returns subcommand names and aliases in registration order
func (c *CommandSpec) SubcommandNames() []string {
	return c.subcommands.Keys()
}

// Subcommands returns each subcommand once, in registration order
func (c *CommandSpec) Subcommands() []*CommandSpec {
	var subs []*CommandSpec
	seen := map[*CommandSpec]bool{}
	for _, sub := range c.subcommands.Values() {
		if !seen[sub] {
			seen[sub] = true
			subs = append(subs, sub)
		}
	}
	return subs
}

// Mixin returns the mixin registered under name
func (c *CommandSpec) Mixin(name string) (*CommandSpec, bool) {
	return c.mixins.Get(name)
}

// MixinNames returns the names of the mixins in registration order
func (c *CommandSpec) MixinNames() []string {
	return c.mixins.Keys()
}

// Behavior returns a copy of the parser behavior of this command
func (c *CommandSpec) Behavior() *ParserBehavior {
	b := *c.behavior
	b.prefixes = util.Clone(c.behavior.prefixes)
	return &b
}

func (c *CommandSpec) Parent() *CommandSpec {
	return c.parent
}

// Root returns the top-most parent of the command
func (c *CommandSpec) Root() *CommandSpec {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// IsFrozen reports whether the command has been parsed and can no longer change shape
func (c *CommandSpec) IsFrozen() bool {
	return c.frozen.Load()
}

func (c *CommandSpec) checkMutable() error {
	if c.frozen.Load() {
		return fmt.Errorf(FmtErrorWithString, ErrSpecFrozen, describeCommand(c))
	}
	return nil
}

func (c *CommandSpec) checkOption(opt *OptionSpec) error {
	for _, name := range opt.names {
		prefix, ok := c.behavior.prefixOf(name)
		if !ok || len(name) == len(prefix) {
			return fmt.Errorf("%w: option name '%s' must start with one of %s", ErrInvalidArgument, name, quoteAll(c.behavior.prefixes))
		}
		if _, taken := c.optionsByName[name]; taken && !c.behavior.overwrittenOptionsAllowed {
			return newDuplicateNameError(c, "option", name)
		}
	}
	return nil
}

func (c *CommandSpec) putOption(opt *OptionSpec) {
	for _, name := range opt.names {
		if prior, ok := c.optionsByName[name]; ok {
			c.removeOption(prior)
		}
	}
	c.options = append(c.options, opt)
	for _, name := range opt.names {
		c.optionsByName[name] = opt
	}
}

func (c *CommandSpec) removeOption(opt *OptionSpec) {
	kept := c.options[:0]
	for _, o := range c.options {
		if o != opt {
			kept = append(kept, o)
		}
	}
	c.options = kept
	for _, name := range opt.names {
		if c.optionsByName[name] == opt {
			delete(c.optionsByName, name)
		}
	}
}

// freeze marks c and its subcommands as frozen and reports whether c was frozen already
func (c *CommandSpec) freeze() bool {
	was := c.frozen.Swap(true)
	for _, sub := range c.Subcommands() {
		sub.freeze()
	}
	return was
}
