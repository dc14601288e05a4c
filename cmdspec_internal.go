package cmdspec

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/napalu/cmdspec/internal/util"
	"github.com/napalu/cmdspec/parse"
	"github.com/napalu/cmdspec/types"
	"github.com/rs/zerolog"
)

// frame matches the tokens belonging to one command. A frame ends when the tokens run out or when a
// subcommand name is matched, in which case the remaining tokens go to a child frame.
type frame struct {
	parser       *Parser
	spec         *CommandSpec
	behavior     *ParserBehavior
	state        parse.State
	result       *ParseResult
	log          zerolog.Logger
	position     int
	endOfOptions bool
	reset        bool
	started      map[Arg]bool
}

func (p *Parser) newFrame(spec *CommandSpec, state parse.State, args []string, reset bool) *frame {
	return &frame{
		parser:   p,
		spec:     spec,
		behavior: spec.behavior,
		state:    state,
		result:   newParseResult(spec, args),
		log:      p.logger.With().Str("command", spec.QualifiedName()).Logger(),
		reset:    reset,
		started:  map[Arg]bool{},
	}
}

func (f *frame) run() error {
	if f.reset {
		for _, arg := range f.spec.Args() {
			if err := arg.argSpec().reset(); err != nil {
				return newBindingAccessError(f.spec, arg, err)
			}
		}
	}

	for f.state.Advance() {
		descended, err := f.next(f.state.CurrentArg())
		if err != nil || descended {
			return err
		}
	}

	return f.finish()
}

// next handles one token and reports whether matching continued in a subcommand frame
func (f *frame) next(token string) (bool, error) {
	if f.endOfOptions {
		return f.nonOption(token)
	}
	if f.isEndOfOptions(token) {
		f.endOfOptions = true
		f.log.Debug().Str("token", token).Msg("end of options")
		return false, nil
	}
	if f.isOptionLike(token) {
		if handled, err := f.option(token); handled || err != nil {
			return false, err
		}
		if util.IsNegativeNumber(token) || f.behavior.unmatchedOptionsArePositionals {
			return f.nonOption(token)
		}
		return false, f.unmatched(token)
	}

	return f.nonOption(token)
}

func (f *frame) nonOption(token string) (bool, error) {
	if pos := f.positionalAt(f.position); pos != nil {
		return false, f.matchPositional(pos, token)
	}
	if !f.endOfOptions {
		if child, ok := f.spec.Subcommand(token); ok {
			return true, f.subcommand(child, token)
		}
	}

	return false, f.unmatched(token)
}

func (f *frame) unmatched(token string) error {
	if !f.behavior.unmatchedArgumentsAllowed {
		return newUnmatchedArgumentError(f.spec, token)
	}
	f.log.Debug().Str("token", token).Msg("unmatched argument")
	f.result.unmatched = append(f.result.unmatched, token)

	return nil
}

// option resolves an option-like token by exact or case-insensitive name, then as name+separator+value,
// then as a cluster of short options
func (f *frame) option(token string) (bool, error) {
	if opt := f.spec.lookupOption(token); opt != nil {
		return true, f.matchOption(opt, token, "", false)
	}
	if name, value, ok := f.splitAttached(token); ok {
		if opt := f.spec.lookupOption(name); opt != nil {
			return true, f.matchOption(opt, token, value, true)
		}
	}
	if f.behavior.clusteredShortOptions {
		return f.cluster(token)
	}

	return false, nil
}

func (f *frame) splitAttached(token string) (name, value string, ok bool) {
	sep := f.behavior.separator
	if sep == "" {
		return "", "", false
	}
	i := strings.Index(token, sep)
	if i <= 0 {
		return "", "", false
	}

	return token[:i], token[i+len(sep):], true
}

// clusterHead returns the leading short option of a token such as "-vfx" along with its prefix and the
// text following it
func (f *frame) clusterHead(token string) (opt *OptionSpec, prefix, rest string) {
	prefix, ok := f.behavior.prefixOf(token)
	if !ok {
		return nil, "", ""
	}
	body := token[len(prefix):]
	_, size := utf8.DecodeRuneInString(body)
	if len(body) <= size || strings.HasPrefix(body, prefix) {
		return nil, "", ""
	}

	return f.spec.lookupOption(prefix + body[:size]), prefix, body[size:]
}

// cluster matches the first short option of token. A flag puts the rest of the cluster back in front of
// the stream, any other option takes the rest as its value. A cluster with an unknown member is not
// matched at all.
func (f *frame) cluster(token string) (bool, error) {
	opt, prefix, rest := f.clusterHead(token)
	if opt == nil {
		return false, nil
	}
	name := strings.TrimSuffix(token, rest)
	if opt.isFlag() {
		if !f.clusterResolves(token) {
			return false, nil
		}
		if err := f.matchOption(opt, name, "", false); err != nil {
			return true, err
		}
		f.state.InsertArgs(prefix + rest)
		return true, nil
	}

	return true, f.matchOption(opt, token, rest, true)
}

// clusterResolves reports whether every member of a cluster resolves, up to the first option taking
// the remaining text as its value
func (f *frame) clusterResolves(token string) bool {
	for {
		opt, prefix, rest := f.clusterHead(token)
		switch {
		case opt == nil:
			return false
		case !opt.isFlag():
			return true
		}
		token = prefix + rest
		if f.spec.lookupOption(token) != nil {
			return true
		}
		if name, _, ok := f.splitAttached(token); ok && f.spec.lookupOption(name) != nil {
			return true
		}
	}
}

func (f *frame) matchOption(opt *OptionSpec, token, attached string, hasAttached bool) error {
	if opt.usageHelp {
		f.result.usageHelp = true
	}
	if opt.versionHelp {
		f.result.versionHelp = true
	}

	var raw []string
	switch {
	case opt.isFlag() && hasAttached && !isBoolish(opt.typ):
		return newUnmatchedArgumentError(f.spec, token)
	case hasAttached:
		raw = append(raw, attached)
	}

	if !opt.isFlag() {
		for len(raw) < opt.arity.Min {
			next, ok := f.state.Peek()
			if !ok || f.isEndOfOptions(next) || f.resolvesToOption(next) {
				return newMissingParameterError(f.spec,
					fmt.Sprintf("missing required parameter for %s (%s)", describeArg(opt), opt.paramLabel), opt)
			}
			f.state.Advance()
			raw = append(raw, next)
		}
		for opt.arity.Allows(len(raw)) {
			next, ok := f.state.Peek()
			if !ok || !f.acceptsOptionalValue(next) {
				break
			}
			f.state.Advance()
			raw = append(raw, next)
		}
	}

	f.result.matchedOptions = append(f.result.matchedOptions, opt)
	f.result.matched[opt] = true
	f.log.Debug().
		Str("option", opt.LongestName()).
		Str("token", token).
		Strs("values", raw).
		Msg("matched option")

	if len(raw) == 0 {
		if isBoolish(opt.typ) {
			return f.applyImplicit(opt, "true")
		}
		return nil
	}
	for _, r := range raw {
		if err := f.applyRaw(opt, r); err != nil {
			return err
		}
	}

	return nil
}

// acceptsOptionalValue reports whether token may be consumed as an optional value of an option
func (f *frame) acceptsOptionalValue(token string) bool {
	switch {
	case f.isEndOfOptions(token):
		return false
	case f.isOptionLike(token) && !util.IsNegativeNumber(token):
		return false
	case f.spec.subcommands.Has(token):
		return false
	}
	return true
}

// resolvesToOption reports whether token would be matched as an option of this frame
func (f *frame) resolvesToOption(token string) bool {
	if !f.isOptionLike(token) {
		return false
	}
	if f.spec.lookupOption(token) != nil {
		return true
	}
	if name, _, ok := f.splitAttached(token); ok && f.spec.lookupOption(name) != nil {
		return true
	}
	if f.behavior.clusteredShortOptions {
		if opt, _, _ := f.clusterHead(token); opt != nil {
			return true
		}
	}

	return false
}

func (f *frame) isOptionLike(token string) bool {
	prefix, ok := f.behavior.prefixOf(token)
	return ok && len(token) > len(prefix)
}

func (f *frame) isEndOfOptions(token string) bool {
	return f.behavior.endOfOptions != "" && token == f.behavior.endOfOptions
}

func (f *frame) positionalAt(index int) *PositionalParamSpec {
	for _, pos := range f.spec.positionals {
		if pos.index.Contains(index) {
			return pos
		}
	}
	return nil
}

func (f *frame) matchPositional(pos *PositionalParamSpec, token string) error {
	f.result.matchedPositionals = append(f.result.matchedPositionals, PositionalMatch{
		Spec:  pos,
		Index: f.position,
		Value: token,
	})
	f.result.matched[pos] = true
	f.log.Debug().
		Int("index", f.position).
		Str("positional", pos.String()).
		Str("token", token).
		Msg("matched positional parameter")
	f.position++

	return f.applyRaw(pos, token)
}

func (f *frame) subcommand(child *CommandSpec, token string) error {
	if err := f.finish(); err != nil {
		return err
	}
	f.log.Debug().Str("subcommand", token).Msg("entering subcommand")

	sub := f.parser.newFrame(child, f.state, f.result.originalArgs, f.reset)
	f.result.subcommand = sub.result

	return sub.run()
}

// applyRaw splits, converts and stores a token consumed by arg
func (f *frame) applyRaw(arg Arg, raw string) error {
	f.result.originalStrings[arg] = append(f.result.originalStrings[arg], raw)
	for _, piece := range arg.argSpec().splitValue(raw) {
		f.result.stringValues[arg] = append(f.result.stringValues[arg], piece)
		if err := f.store(arg, piece); err != nil {
			return err
		}
	}

	return nil
}

// applyImplicit stores a value the user did not type, such as "true" for a flag
func (f *frame) applyImplicit(arg Arg, value string) error {
	return f.store(arg, value)
}

func (f *frame) store(arg Arg, piece string) error {
	a := arg.argSpec()
	if !f.started[arg] {
		f.started[arg] = true
		if err := a.begin(); err != nil {
			return newBindingAccessError(f.spec, arg, err)
		}
	}
	v, target, err := a.convertPiece(f.parser.converters, piece)
	if err != nil {
		return newTypeConversionError(f.spec, arg, piece, target, err)
	}
	if err = a.apply(v); err != nil {
		return newBindingAccessError(f.spec, arg, err)
	}

	return nil
}

// finish applies default values to unmatched arguments and snapshots the values of matched ones
func (f *frame) finish() error {
	for _, arg := range f.spec.Args() {
		a := arg.argSpec()
		if f.result.matched[arg] || a.defaultValue == "" {
			continue
		}
		if a.kind != types.Scalar {
			if err := a.clear(); err != nil {
				return newBindingAccessError(f.spec, arg, err)
			}
		}
		for _, piece := range a.splitValue(a.defaultValue) {
			if err := f.store(arg, piece); err != nil {
				return err
			}
		}
		f.log.Debug().Str("arg", describeArg(arg)).Str("default", a.defaultValue).Msg("applied default value")
	}

	for arg := range f.result.matched {
		v, err := arg.argSpec().binding.Get()
		if err != nil {
			return newBindingAccessError(f.spec, arg, err)
		}
		f.result.values[arg] = copyValue(v)
	}

	return nil
}

// validateRequired reports the required arguments left unmatched in any frame, root first. Nothing is
// required once help or version information has been requested.
func validateRequired(root *ParseResult) error {
	frames := root.Frames()
	for _, r := range frames {
		if r.usageHelp || r.versionHelp {
			return nil
		}
	}

	for _, r := range frames {
		var missing []Arg
		for _, arg := range r.spec.Args() {
			if arg.Required() && !r.matched[arg] {
				missing = append(missing, arg)
			}
		}
		if len(missing) == 0 {
			continue
		}
		described := make([]string, len(missing))
		for i, arg := range missing {
			described[i] = describeArg(arg)
		}
		return newMissingParameterError(r.spec,
			fmt.Sprintf("missing required %s", strings.Join(described, ", ")), missing...)
	}

	return nil
}

// copyValue returns a shallow copy of slices, maps and collections so that callers cannot change
// recorded values
func copyValue(v any) any {
	if util.IsNil(v) {
		return v
	}
	if c, ok := v.(Collection); ok && reflect.TypeOf(v).Kind() == reflect.Ptr {
		if clone, err := cloneCollection(c); err == nil {
			return clone
		}
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		c := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(c, rv)
		return c.Interface()
	case reflect.Map:
		c := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), iter.Value())
		}
		return c.Interface()
	}
	return v
}
