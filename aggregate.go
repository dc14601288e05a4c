package cmdspec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/napalu/cmdspec/convert"
	"github.com/napalu/cmdspec/internal/util"
	"github.com/napalu/cmdspec/types"
)

var errNotKeyValue = errors.New("value should be in KEY=VALUE format")

// convertPiece converts one post-split value to the argument's element type. Map arguments yield a
// types.KeyValue[any, any]. On failure the conversion target is returned along with the error.
func (a *ArgSpec) convertPiece(converters *convert.Registry, piece string) (any, reflect.Type, error) {
	if a.kind != types.Map {
		target := a.auxTypes[0]
		v, err := converters.Convert(piece, target)
		return v, target, err
	}

	key, value, ok := strings.Cut(piece, "=")
	if !ok {
		return nil, a.typ, errNotKeyValue
	}
	k, err := converters.Convert(key, a.auxTypes[0])
	if err != nil {
		return nil, a.auxTypes[0], err
	}
	v, err := converters.Convert(value, a.auxTypes[1])
	if err != nil {
		return nil, a.auxTypes[1], err
	}

	return types.KeyValue[any, any]{Key: k, Value: v}, nil, nil
}

// apply combines a converted value with the binding's current value according to the container kind
func (a *ArgSpec) apply(value any) error {
	switch a.kind {
	case types.Array:
		return a.appendToSlice(value)
	case types.Collection:
		return a.addToCollection(value)
	case types.Map:
		kv, ok := value.(types.KeyValue[any, any])
		if !ok {
			return fmt.Errorf("%w: %T", errNotKeyValue, value)
		}
		return a.putInMap(kv)
	default:
		_, err := a.binding.Set(value)
		return err
	}
}

// appendToSlice allocates a slice one element longer than the current one, so that slices handed out
// earlier never change
func (a *ArgSpec) appendToSlice(value any) error {
	current, err := a.binding.Get()
	if err != nil {
		return err
	}

	var n int
	cur := reflect.ValueOf(current)
	if !util.IsNil(current) && cur.Kind() == reflect.Slice {
		n = cur.Len()
	}
	next := reflect.MakeSlice(a.typ, n+1, n+1)
	if n > 0 {
		reflect.Copy(next, cur)
	}
	elem, err := assignable(value, a.typ.Elem())
	if err != nil {
		return err
	}
	next.Index(n).Set(elem)

	_, err = a.binding.Set(next.Interface())
	return err
}

// addToCollection adds to the current collection in place, creating an empty one when there is none
func (a *ArgSpec) addToCollection(value any) error {
	current, err := a.binding.Get()
	if err != nil {
		return err
	}

	coll, ok := current.(Collection)
	if !ok || util.IsNil(current) {
		coll = reflect.New(a.typ.Elem()).Interface().(Collection)
	}
	if err = coll.Add(value); err != nil {
		return err
	}

	_, err = a.binding.Set(coll)
	return err
}

// begin prepares the binding for the first value stored in a frame. A collection is replaced by an
// empty one; the collection the binding held before is never added to.
func (a *ArgSpec) begin() error {
	if a.kind != types.Collection {
		return nil
	}
	_, err := a.binding.Set(reflect.New(a.typ.Elem()).Interface())
	return err
}

// cloneCollection returns a new collection of the same type as c holding the same items
func cloneCollection(c Collection) (Collection, error) {
	clone := reflect.New(reflect.TypeOf(c).Elem()).Interface().(Collection)
	for _, item := range c.Items() {
		if err := clone.Add(item); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// putInMap copies the current map and inserts kv
func (a *ArgSpec) putInMap(kv types.KeyValue[any, any]) error {
	current, err := a.binding.Get()
	if err != nil {
		return err
	}

	next := reflect.MakeMap(a.typ)
	cur := reflect.ValueOf(current)
	if !util.IsNil(current) && cur.Kind() == reflect.Map {
		iter := cur.MapRange()
		for iter.Next() {
			next.SetMapIndex(iter.Key(), iter.Value())
		}
	}
	k, err := assignable(kv.Key, a.typ.Key())
	if err != nil {
		return err
	}
	v, err := assignable(kv.Value, a.typ.Elem())
	if err != nil {
		return err
	}
	next.SetMapIndex(k, v)

	_, err = a.binding.Set(next.Interface())
	return err
}

// reset restores the value the binding held when the argument was built
func (a *ArgSpec) reset() error {
	_, err := a.binding.Set(a.initial)
	return err
}

// clear sets the binding to the zero value of the argument's type
func (a *ArgSpec) clear() error {
	_, err := a.binding.Set(util.Zero(a.typ))
	return err
}
