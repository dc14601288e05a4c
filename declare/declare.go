// Package declare builds command specifications from YAML or TOML documents.
//
// A document describes one command:
//
//	name: tool
//	help_options: true
//	options:
//	  - name: verbose
//	    short: v
//	  - name: num
//	    short: n
//	    type: "[]int"
//	    split: ","
//	positionals:
//	  - index: "0..*"
//	subcommands:
//	  - name: build
//	    aliases: [b]
//
// Option names declared with name and short are given the command's prefixes: "--" and "-" by
// default, otherwise the longest and the shortest declared prefix. Names listed under names are
// used as is.
package declare

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/strcase"
	"github.com/napalu/cmdspec"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load for files which are neither YAML nor TOML
var ErrUnsupportedFormat = errors.New("unsupported format")

// Command is the declared form of a cmdspec.CommandSpec
type Command struct {
	Name        string       `yaml:"name" toml:"name"`
	Aliases     []string     `yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Version     []string     `yaml:"version,omitempty" toml:"version,omitempty"`
	Usage       string       `yaml:"usage,omitempty" toml:"usage,omitempty"`
	HelpOptions bool         `yaml:"help_options,omitempty" toml:"help_options,omitempty"`
	Behavior    Behavior     `yaml:"behavior,omitempty" toml:"behavior,omitempty"`
	Options     []Option     `yaml:"options,omitempty" toml:"options,omitempty"`
	Positionals []Positional `yaml:"positionals,omitempty" toml:"positionals,omitempty"`
	Subcommands []Command    `yaml:"subcommands,omitempty" toml:"subcommands,omitempty"`
}

// Behavior is the declared form of a cmdspec.ParserBehavior. Unset fields keep their defaults.
type Behavior struct {
	AllowOverwrittenOptions        bool     `yaml:"allow_overwritten_options,omitempty" toml:"allow_overwritten_options,omitempty"`
	AllowUnmatchedArguments        bool     `yaml:"allow_unmatched_arguments,omitempty" toml:"allow_unmatched_arguments,omitempty"`
	UnmatchedOptionsArePositionals bool     `yaml:"unmatched_options_are_positionals,omitempty" toml:"unmatched_options_are_positionals,omitempty"`
	CaseInsensitiveOptions         bool     `yaml:"case_insensitive_options,omitempty" toml:"case_insensitive_options,omitempty"`
	ClusteredShortOptions          *bool    `yaml:"clustered_short_options,omitempty" toml:"clustered_short_options,omitempty"`
	Separator                      *string  `yaml:"separator,omitempty" toml:"separator,omitempty"`
	EndOfOptions                   *string  `yaml:"end_of_options,omitempty" toml:"end_of_options,omitempty"`
	Prefixes                       []string `yaml:"prefixes,omitempty" toml:"prefixes,omitempty"`
	ExpandAtFiles                  bool     `yaml:"expand_at_files,omitempty" toml:"expand_at_files,omitempty"`
}

// Option is the declared form of a cmdspec.OptionSpec
type Option struct {
	Name        string   `yaml:"name,omitempty" toml:"name,omitempty"`
	Short       string   `yaml:"short,omitempty" toml:"short,omitempty"`
	Names       []string `yaml:"names,omitempty" toml:"names,omitempty"`
	Type        string   `yaml:"type,omitempty" toml:"type,omitempty"`
	Arity       string   `yaml:"arity,omitempty" toml:"arity,omitempty"`
	Split       string   `yaml:"split,omitempty" toml:"split,omitempty"`
	Default     string   `yaml:"default,omitempty" toml:"default,omitempty"`
	Label       string   `yaml:"label,omitempty" toml:"label,omitempty"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty" toml:"required,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	UsageHelp   bool     `yaml:"usage_help,omitempty" toml:"usage_help,omitempty"`
	VersionHelp bool     `yaml:"version_help,omitempty" toml:"version_help,omitempty"`
}

// Positional is the declared form of a cmdspec.PositionalParamSpec
type Positional struct {
	Index       string `yaml:"index,omitempty" toml:"index,omitempty"`
	Type        string `yaml:"type,omitempty" toml:"type,omitempty"`
	Split       string `yaml:"split,omitempty" toml:"split,omitempty"`
	Default     string `yaml:"default,omitempty" toml:"default,omitempty"`
	Label       string `yaml:"label,omitempty" toml:"label,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" toml:"required,omitempty"`
	Hidden      bool   `yaml:"hidden,omitempty" toml:"hidden,omitempty"`
}

// LoadYAML decodes a YAML command document. Unknown keys are an error.
func LoadYAML(data []byte) (*Command, error) {
	var cmd Command
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cmd); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return &cmd, nil
}

// LoadTOML decodes a TOML command document. Unknown keys are an error.
func LoadTOML(data []byte) (*Command, error) {
	var cmd Command
	md, err := toml.Decode(string(data), &cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("failed to parse toml: unknown keys %s", strings.Join(keys, ", "))
	}
	return &cmd, nil
}

// Load reads a command document from path, choosing the format by file extension
func Load(path string) (*Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cmd *Command
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cmd, err = LoadYAML(data)
	case ".toml":
		cmd, err = LoadTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cmd, nil
}

// Build turns the declared command and its subcommands into a cmdspec.CommandSpec
func (c *Command) Build() (*cmdspec.CommandSpec, error) {
	configs := []cmdspec.ConfigureCommandFunc{
		cmdspec.WithName(c.Name),
		cmdspec.WithAliases(c.Aliases...),
		cmdspec.WithVersion(c.Version...),
		cmdspec.WithUsageMessage(c.Usage),
		cmdspec.WithBehavior(c.Behavior.configs()...),
	}

	short, long := c.Behavior.namePrefixes()
	for i := range c.Options {
		opt := &c.Options[i]
		argConfigs, err := opt.configs(short, long)
		if err != nil {
			return nil, fmt.Errorf("command '%s': %w", c.Name, err)
		}
		configs = append(configs, cmdspec.WithOption(argConfigs...))
	}
	for i := range c.Positionals {
		argConfigs, err := c.Positionals[i].configs()
		if err != nil {
			return nil, fmt.Errorf("command '%s': positional %d: %w", c.Name, i, err)
		}
		configs = append(configs, cmdspec.WithPositional(argConfigs...))
	}
	if c.HelpOptions {
		configs = append(configs, cmdspec.WithStandardHelpOptions())
	}
	for i := range c.Subcommands {
		sub := &c.Subcommands[i]
		if sub.Name == "" {
			return nil, fmt.Errorf("command '%s': subcommand %d: %w: missing name", c.Name, i, cmdspec.ErrInvalidArgument)
		}
		child, err := sub.Build()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cmdspec.WithSubcommand(sub.Name, child))
	}

	return cmdspec.NewCommandSpec(configs...)
}

func (b *Behavior) configs() []cmdspec.ConfigureBehaviorFunc {
	configs := []cmdspec.ConfigureBehaviorFunc{
		cmdspec.AllowOverwrittenOptions(b.AllowOverwrittenOptions),
		cmdspec.AllowUnmatchedArguments(b.AllowUnmatchedArguments),
		cmdspec.TreatUnmatchedOptionsAsPositionals(b.UnmatchedOptionsArePositionals),
		cmdspec.SetCaseInsensitiveOptions(b.CaseInsensitiveOptions),
		cmdspec.SetExpandAtFiles(b.ExpandAtFiles),
	}
	if b.ClusteredShortOptions != nil {
		configs = append(configs, cmdspec.SetClusteredShortOptions(*b.ClusteredShortOptions))
	}
	if b.Separator != nil {
		configs = append(configs, cmdspec.WithSeparator(*b.Separator))
	}
	if b.EndOfOptions != nil {
		configs = append(configs, cmdspec.WithEndOfOptions(*b.EndOfOptions))
	}
	if len(b.Prefixes) > 0 {
		configs = append(configs, cmdspec.WithPrefixes(b.Prefixes...))
	}

	return configs
}

// namePrefixes returns the prefixes given to declared short and long option names
func (b *Behavior) namePrefixes() (short, long string) {
	if len(b.Prefixes) == 0 {
		return "-", "--"
	}
	short, long = b.Prefixes[0], b.Prefixes[0]
	for _, p := range b.Prefixes[1:] {
		if len(p) < len(short) {
			short = p
		}
		if len(p) > len(long) {
			long = p
		}
	}
	return short, long
}

func (o *Option) names(short, long string) []string {
	names := append([]string(nil), o.Names...)
	if o.Short != "" {
		names = append(names, short+o.Short)
	}
	if o.Name != "" {
		names = append(names, long+strcase.ToKebab(o.Name))
	}
	return names
}

func (o *Option) configs(short, long string) ([]cmdspec.ConfigureArgumentFunc, error) {
	names := o.names(short, long)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: an option needs a name", cmdspec.ErrInvalidArgument)
	}
	typ, err := ParseType(o.Type)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", names[0], err)
	}

	configs := []cmdspec.ConfigureArgumentFunc{
		cmdspec.WithNames(names...),
		cmdspec.WithArity(o.Arity),
		cmdspec.WithParamLabel(o.Label),
		cmdspec.WithDescription(o.Description),
		cmdspec.WithDefaultValue(o.Default),
		cmdspec.SetRequired(o.Required),
		cmdspec.SetHidden(o.Hidden),
		cmdspec.SetUsageHelp(o.UsageHelp),
		cmdspec.SetVersionHelp(o.VersionHelp),
	}
	if typ != nil {
		configs = append(configs, cmdspec.WithType(typ))
	}
	if o.Split != "" {
		configs = append(configs, cmdspec.WithSplit(o.Split))
	}

	return configs, nil
}

func (p *Positional) configs() ([]cmdspec.ConfigureArgumentFunc, error) {
	typ, err := ParseType(p.Type)
	if err != nil {
		return nil, err
	}

	configs := []cmdspec.ConfigureArgumentFunc{
		cmdspec.WithIndex(p.Index),
		cmdspec.WithParamLabel(p.Label),
		cmdspec.WithDescription(p.Description),
		cmdspec.WithDefaultValue(p.Default),
		cmdspec.SetRequired(p.Required),
		cmdspec.SetHidden(p.Hidden),
	}
	if typ != nil {
		configs = append(configs, cmdspec.WithType(typ))
	}
	if p.Split != "" {
		configs = append(configs, cmdspec.WithSplit(p.Split))
	}

	return configs, nil
}
