package cmdspec

import (
	"fmt"
	"reflect"

	"github.com/napalu/cmdspec/types/orderedmap"
)

// Collection is a container receiving values in place. Options and positional parameters whose
// type is a pointer to a Collection accumulate one element per converted value.
type Collection interface {
	Add(value any) error
	Len() int
	Items() []any
}

// ElementTyper is implemented by collections which know their element type. It is used as the
// conversion target of the collection's values.
type ElementTyper interface {
	ElemType() reflect.Type
}

var (
	collectionType   = reflect.TypeOf((*Collection)(nil)).Elem()
	elementTyperType = reflect.TypeOf((*ElementTyper)(nil)).Elem()
)

// List is an ordered Collection allowing duplicates
type List[T any] struct {
	items []T
}

// NewList returns a List holding items
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

func (l *List[T]) Add(value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("cannot add %T to %s", value, l.ElemType())
	}
	l.items = append(l.items, v)
	return nil
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) Items() []any {
	items := make([]any, len(l.items))
	for i, v := range l.items {
		items[i] = v
	}
	return items
}

// Values returns a copy of the list's elements
func (l *List[T]) Values() []T {
	return append([]T(nil), l.items...)
}

func (l *List[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// OrderedSet is a Collection keeping the first occurrence of each element in insertion order
type OrderedSet[T comparable] struct {
	items *orderedmap.OrderedMap[T, struct{}]
}

// NewOrderedSet returns a set holding items
func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{}
	for _, item := range items {
		s.put(item)
	}
	return s
}

func (s *OrderedSet[T]) put(v T) {
	if s.items == nil {
		s.items = orderedmap.NewOrderedMap[T, struct{}]()
	}
	if !s.items.Has(v) {
		s.items.Set(v, struct{}{})
	}
}

func (s *OrderedSet[T]) Add(value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("cannot add %T to %s", value, s.ElemType())
	}
	s.put(v)
	return nil
}

func (s *OrderedSet[T]) Len() int {
	if s.items == nil {
		return 0
	}
	return s.items.Count()
}

// Contains reports whether v is in the set
func (s *OrderedSet[T]) Contains(v T) bool {
	return s.items != nil && s.items.Has(v)
}

func (s *OrderedSet[T]) Items() []any {
	values := s.Values()
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return items
}

// Values returns the set's elements in insertion order
func (s *OrderedSet[T]) Values() []T {
	if s.items == nil {
		return nil
	}
	return s.items.Keys()
}

func (s *OrderedSet[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
