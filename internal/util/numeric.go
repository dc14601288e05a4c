package util

import "strconv"

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Number is the result of ParseNumeric; exactly one of IsInt, IsFloat and IsComplex is set
type Number struct {
	Int        int64
	Float      float64
	Complex    complex128
	IsInt      bool
	IsFloat    bool
	IsComplex  bool
	IsNegative bool
}

// ParseNumeric parses s as an integer literal (any base prefix accepted by strconv), then as a
// float and finally as a complex number
func ParseNumeric(s string) (n Number, ok bool) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		n.Int = i
		n.IsInt = true
		n.IsNegative = i < 0
		return n, true
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n.Float = f
		n.IsFloat = true
		n.IsNegative = f < 0
		return n, true
	}

	if c, err := strconv.ParseComplex(s, 128); err == nil {
		n.Complex = c
		n.IsComplex = true
		n.IsNegative = real(c) < 0
		return n, true
	}

	return n, false
}

// IsNegativeNumber reports whether s is a negative integer or float literal such as -1 or -2.5.
// Such tokens look like options but are treated as values.
func IsNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	n, ok := ParseNumeric(s)
	return ok && (n.IsInt || n.IsFloat) && n.IsNegative
}

func Min[T Numeric](x, y T) T {
	if x < y {
		return x
	}
	return y
}
