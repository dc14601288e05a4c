package orderedmap

import (
	wk8 "github.com/wk8/go-ordered-map"
)

// Iterator starting at OrderedMap.Front or OrderedMap.Back
type Iterator[K comparable, V any] struct {
	Key     *K
	Value   V
	forward bool
	pair    *wk8.Pair
}

// OrderedMap stores key-value pairs in insertion order. Re-setting an existing key keeps its
// original position.
type OrderedMap[K comparable, V any] struct {
	store *wk8.OrderedMap
}

func newIterator[K comparable, V any](pair *wk8.Pair, forward bool) *Iterator[K, V] {
	if pair == nil {
		return nil
	}

	key := pair.Key.(K)
	return &Iterator[K, V]{
		Key:     &key,
		Value:   pair.Value.(V),
		forward: forward,
		pair:    pair,
	}
}

// Next gets the next keyValue or nil when no more values can be iterated on
func (n *Iterator[K, V]) Next() *Iterator[K, V] {
	if n == nil {
		return nil
	}
	if n.forward {
		return newIterator[K, V](n.pair.Next(), n.forward)
	}
	return newIterator[K, V](n.pair.Prev(), n.forward)
}

// Prev gets the previous keyValue or nil when no more values can be iterated on
func (n *Iterator[K, V]) Prev() *Iterator[K, V] {
	if n == nil {
		return nil
	}
	if n.forward {
		return newIterator[K, V](n.pair.Prev(), n.forward)
	}
	return newIterator[K, V](n.pair.Next(), n.forward)
}

// NewOrderedMap creates a new OrderedMap of type K
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		store: wk8.New(),
	}
}

// Set will store a key-value pair. If the key already exists,
// it will overwrite the existing value in place
func (o *OrderedMap[K, V]) Set(key K, val V) {
	o.store.Set(key, val)
}

// Get will return the value associated with the key.
// If the key doesn't exist, the second return value will be false.
func (o *OrderedMap[K, V]) Get(key K) (V, bool) {
	val, exists := o.store.Get(key)
	if !exists {
		return *new(V), false
	}
	return val.(V), true
}

// Has reports whether key is present
func (o *OrderedMap[K, V]) Has(key K) bool {
	_, exists := o.store.Get(key)
	return exists
}

// Iterator is used to loop through the stored key-value pairs.
// The returned anonymous function returns the index, key and value.
func (o *OrderedMap[K, V]) Iterator() func() (*int, *K, V) {
	e := o.store.Oldest()
	j := 0
	return func() (_ *int, _ *K, _ V) {
		if e == nil {
			return
		}

		key := e.Key.(K)
		val := e.Value.(V)
		idx := j
		j++
		e = e.Next()

		return &idx, &key, val
	}
}

// Delete will remove the key and its associated value.
func (o *OrderedMap[K, V]) Delete(key K) {
	o.store.Delete(key)
}

// Count returns the count of keys in OrderedMap
func (o *OrderedMap[K, V]) Count() int {
	return o.store.Len()
}

// Front returns an iterator pointing to the oldest (inserted-first) keyValue
func (o *OrderedMap[K, V]) Front() *Iterator[K, V] {
	return newIterator[K, V](o.store.Oldest(), true)
}

// Back returns an Iterator pointing to the newest (inserted-last) keyValue
func (o *OrderedMap[K, V]) Back() *Iterator[K, V] {
	return newIterator[K, V](o.store.Newest(), false)
}

// Keys returns the keys in insertion order
func (o *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, o.store.Len())
	for p := o.store.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key.(K))
	}
	return keys
}

// Values returns the values in insertion order
func (o *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, o.store.Len())
	for p := o.store.Oldest(); p != nil; p = p.Next() {
		values = append(values, p.Value.(V))
	}
	return values
}
