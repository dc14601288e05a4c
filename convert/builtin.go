package convert

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/napalu/cmdspec/internal/util"
)

var (
	// ErrNotAnInteger is returned when a value is not an integer literal
	ErrNotAnInteger = errors.New("not an integer")
	// ErrOverflow is returned when a value does not fit into the target type
	ErrOverflow = errors.New("value out of range")
	// ErrInvalidIP is returned for malformed IP addresses
	ErrInvalidIP = errors.New("invalid IP address")
)

func registerKinds(r *Registry) {
	r.kinds[reflect.String] = ConverterFunc(func(s string, t reflect.Type) (any, error) {
		return reflect.ValueOf(s).Convert(t).Interface(), nil
	})
	r.kinds[reflect.Bool] = ConverterFunc(func(s string, t reflect.Type) (any, error) {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(t).Interface(), nil
	})

	for _, k := range []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64} {
		r.kinds[k] = ConverterFunc(convertInt)
	}
	for _, k := range []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr} {
		r.kinds[k] = ConverterFunc(convertUint)
	}
	for _, k := range []reflect.Kind{reflect.Float32, reflect.Float64} {
		r.kinds[k] = ConverterFunc(func(s string, t reflect.Type) (any, error) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(f).Convert(t).Interface(), nil
		})
	}
	for _, k := range []reflect.Kind{reflect.Complex64, reflect.Complex128} {
		r.kinds[k] = ConverterFunc(func(s string, t reflect.Type) (any, error) {
			c, err := strconv.ParseComplex(s, t.Bits())
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(c).Convert(t).Interface(), nil
		})
	}
}

func convertInt(s string, t reflect.Type) (any, error) {
	num, ok := util.ParseNumeric(s)
	if !ok || !num.IsInt {
		return nil, ErrNotAnInteger
	}
	v := reflect.New(t).Elem()
	if v.OverflowInt(num.Int) {
		return nil, fmt.Errorf("%w: %d overflows %s", ErrOverflow, num.Int, t)
	}
	v.SetInt(num.Int)

	return v.Interface(), nil
}

func convertUint(s string, t reflect.Type) (any, error) {
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		if num, ok := util.ParseNumeric(s); ok && num.IsNegative {
			return nil, fmt.Errorf("%w: %s is negative", ErrOverflow, s)
		}
		return nil, ErrNotAnInteger
	}
	v := reflect.New(t).Elem()
	if v.OverflowUint(u) {
		return nil, fmt.Errorf("%w: %d overflows %s", ErrOverflow, u, t)
	}
	v.SetUint(u)

	return v.Interface(), nil
}

func registerBuiltins(r *Registry) {
	Register(r, func(s string) (time.Duration, error) {
		return time.ParseDuration(s)
	})
	Register(r, func(s string) (time.Time, error) {
		return dateparse.ParseLocal(s)
	})
	Register(r, func(s string) (uuid.UUID, error) {
		return uuid.Parse(s)
	})
	Register(r, func(s string) (*semver.Version, error) {
		return semver.NewVersion(s)
	})
	Register(r, func(s string) (*regexp.Regexp, error) {
		return regexp.Compile(s)
	})
	Register(r, func(s string) (*url.URL, error) {
		return url.Parse(s)
	})
	Register(r, func(s string) (net.IP, error) {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, ErrInvalidIP
		}
		return ip, nil
	})
	Register(r, func(s string) ([]byte, error) {
		return []byte(s), nil
	})
}
