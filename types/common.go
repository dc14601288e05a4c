package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ContainerKind describes how repeated values are combined on a binding
type ContainerKind int

const (
	Scalar     ContainerKind = iota // Scalar values are overwritten on each match (last match wins)
	Array                           // Array denotes a Go slice which is re-allocated on each match
	Collection                      // Collection denotes a type implementing Add which is appended to in place
	Map                             // Map denotes a Go map receiving key=value pairs
)

// String returns the string representation of a ContainerKind
func (k ContainerKind) String() string {
	switch k {
	case Array:
		return "array"
	case Collection:
		return "collection"
	case Map:
		return "map"
	default:
		return "scalar"
	}
}

// IsMultiValue returns true when values of this kind accumulate across matches
func (k ContainerKind) IsMultiValue() bool {
	return k != Scalar
}

// KeyValue denotes Key Value pairs
type KeyValue[K, V any] struct {
	Key   K
	Value V
}

// ErrInvalidRange is returned when a range expression cannot be parsed
var ErrInvalidRange = errors.New("invalid range")

// Range is a closed or open interval of non-negative integers. It describes both
// the arity of an option (how many values it consumes per match) and the index
// range of a positional parameter.
type Range struct {
	Min      int
	Max      int
	Variable bool // upper bound is unbounded, Max is ignored
	spec     bool
}

// Exactly returns the range n..n
func Exactly(n int) Range {
	return Range{Min: n, Max: n, spec: true}
}

// Between returns the range min..max
func Between(min, max int) Range {
	return Range{Min: min, Max: max, spec: true}
}

// AtLeast returns the range min..*
func AtLeast(min int) Range {
	return Range{Min: min, Max: min, Variable: true, spec: true}
}

// ParseRange parses "n", "n..m", "n..*" and "*" (shorthand for 0..*). An empty string yields
// an unspecified range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, nil
	}
	if s == "*" {
		return AtLeast(0), nil
	}

	lo, hi, isInterval := strings.Cut(s, "..")
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || min < 0 {
		return Range{}, fmt.Errorf("%w: '%s'", ErrInvalidRange, s)
	}
	if !isInterval {
		return Exactly(min), nil
	}

	hi = strings.TrimSpace(hi)
	if hi == "*" {
		return AtLeast(min), nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < min {
		return Range{}, fmt.Errorf("%w: '%s'", ErrInvalidRange, s)
	}

	return Between(min, max), nil
}

// MustParseRange is like ParseRange but panics on malformed input
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// IsUnspecified returns true for the zero Range, i.e. one which was never set
func (r Range) IsUnspecified() bool {
	return !r.spec
}

// Contains returns true when i lies within the range
func (r Range) Contains(i int) bool {
	if i < r.Min {
		return false
	}
	return r.Variable || i <= r.Max
}

// Allows returns true when a count of n values may still be increased by one
func (r Range) Allows(n int) bool {
	return r.Variable || n < r.Max
}

// IsMultiple returns true when the upper bound is larger than one
func (r Range) IsMultiple() bool {
	return r.Variable || r.Max > 1
}

// IsSingle returns true when the range holds exactly one value, e.g. the index range "2"
func (r Range) IsSingle() bool {
	return !r.Variable && r.Max == r.Min
}

// String returns the textual form accepted by ParseRange
func (r Range) String() string {
	switch {
	case r.Variable:
		return fmt.Sprintf("%d..*", r.Min)
	case r.Min == r.Max:
		return strconv.Itoa(r.Min)
	default:
		return fmt.Sprintf("%d..%d", r.Min, r.Max)
	}
}
