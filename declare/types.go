package declare

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/napalu/cmdspec"
)

// ErrUnknownType is returned for type names which do not denote a supported type
var ErrUnknownType = errors.New("unknown type")

var (
	scalars = map[string]reflect.Type{}
	lists   = map[string]reflect.Type{}
	sets    = map[string]reflect.Type{}
)

func init() {
	registerComparable[string]("string")
	registerComparable[bool]("bool")
	registerComparable[int]("int")
	registerComparable[int8]("int8")
	registerComparable[int16]("int16")
	registerComparable[int32]("int32")
	registerComparable[int64]("int64")
	registerComparable[uint]("uint")
	registerComparable[uint8]("uint8")
	registerComparable[uint16]("uint16")
	registerComparable[uint32]("uint32")
	registerComparable[uint64]("uint64")
	registerComparable[float32]("float32")
	registerComparable[float64]("float64")
	registerComparable[complex128]("complex128")
	registerComparable[time.Duration]("duration")
	registerComparable[time.Time]("time")
	registerComparable[uuid.UUID]("uuid")
	registerComparable[*semver.Version]("semver")
	registerComparable[*regexp.Regexp]("regexp")
	registerComparable[*url.URL]("url")
	register[net.IP]("ip")
	register[[]byte]("bytes")
}

func register[T any](name string) {
	scalars[name] = reflect.TypeOf((*T)(nil)).Elem()
	lists[name] = reflect.TypeOf((*cmdspec.List[T])(nil))
}

func registerComparable[T comparable](name string) {
	register[T](name)
	sets[name] = reflect.TypeOf((*cmdspec.OrderedSet[T])(nil))
}

// ParseType resolves a declared type name. Supported forms are a scalar name such as "int",
// "duration" or "uuid", "[]T" for slices, "map[K]V" for maps, "list<T>" for a *cmdspec.List[T] and
// "set<T>" for a *cmdspec.OrderedSet[T]. Names are case-insensitive. An empty name yields nil.
func ParseType(name string) (reflect.Type, error) {
	name = strings.ToLower(strings.ReplaceAll(name, " ", ""))
	switch {
	case name == "":
		return nil, nil
	case strings.HasPrefix(name, "[]"):
		elem, err := scalar(name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, "map["):
		key, value, ok := strings.Cut(name[len("map["):], "]")
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrUnknownType, name)
		}
		k, err := scalar(key)
		if err != nil {
			return nil, err
		}
		if !k.Comparable() {
			return nil, fmt.Errorf("%w: map key %s is not comparable", ErrUnknownType, key)
		}
		v, err := scalar(value)
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(k, v), nil
	case strings.HasPrefix(name, "list<") && strings.HasSuffix(name, ">"):
		return lookup(lists, name[len("list<"):len(name)-1])
	case strings.HasPrefix(name, "set<") && strings.HasSuffix(name, ">"):
		return lookup(sets, name[len("set<"):len(name)-1])
	default:
		return scalar(name)
	}
}

func scalar(name string) (reflect.Type, error) {
	return lookup(scalars, name)
}

func lookup(types map[string]reflect.Type, name string) (reflect.Type, error) {
	t, ok := types[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownType, name)
	}
	return t, nil
}
