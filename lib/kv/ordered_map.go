package kv

import (
	"iter"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/iterator"
	"github.com/benz9527/xcontainer/lib/tree"
)

// OrderedMap is a unique-key map ordered by the key comparator, backed by
// a red-black tree of pairs. It is not thread safe.
type OrderedMap[K any, V any] struct {
	tree tree.RBTree[Pair[K, V]]
}

func pairLess[K any, V any](less infra.LessFunc[K]) infra.LessFunc[Pair[K, V]] {
	return func(a, b Pair[K, V]) bool {
		return less(a.Key, b.Key)
	}
}

func keyOnly[K any, V any](key K) Pair[K, V] {
	return Pair[K, V]{Key: key}
}

// NewOrderedMap panics if less is nil.
func NewOrderedMap[K any, V any](less infra.LessFunc[K], opts ...tree.RBTreeOpt[Pair[K, V]]) *OrderedMap[K, V] {
	if less == nil {
		panic("[kv] nil key less function")
	}
	return &OrderedMap[K, V]{
		tree: tree.NewRBTree[Pair[K, V]](pairLess[K, V](less), opts...),
	}
}

func NewOrderedKeyMap[K infra.OrderedKey, V any](opts ...tree.RBTreeOpt[Pair[K, V]]) *OrderedMap[K, V] {
	return NewOrderedMap[K, V](infra.Less[K], opts...)
}

// KeyLess is the effective key ordering, a descending map reports the
// reversed ordering.
func (m *OrderedMap[K, V]) KeyLess() infra.LessFunc[K] {
	less := m.tree.Less()
	return func(a, b K) bool {
		return less(keyOnly[K, V](a), keyOnly[K, V](b))
	}
}

func (m *OrderedMap[K, V]) Len() int64 {
	return m.tree.Len()
}

func (m *OrderedMap[K, V]) Empty() bool {
	return m.tree.Empty()
}

// Insert does nothing if the key is present, the existing position and
// false are returned.
func (m *OrderedMap[K, V]) Insert(key K, val V) (MapIterator[K, V], bool, error) {
	return m.tree.Insert(MakePair(key, val))
}

func (m *OrderedMap[K, V]) InsertPair(p Pair[K, V]) (MapIterator[K, V], bool, error) {
	return m.tree.Insert(p)
}

func (m *OrderedMap[K, V]) InsertRange(r iterator.Range[Pair[K, V]]) error {
	return m.tree.InsertRange(r)
}

// Index returns the mapped value of key in place. An absent key is inserted
// with the zero value first.
func (m *OrderedMap[K, V]) Index(key K) (*V, error) {
	if it := m.tree.Find(keyOnly[K, V](key)); !it.IsEnd() {
		return &it.Ref().Val, nil
	}
	it, _, err := m.tree.Insert(keyOnly[K, V](key))
	if err != nil {
		return nil, err
	}
	return &it.Ref().Val, nil
}

func (m *OrderedMap[K, V]) At(key K) (V, error) {
	if it := m.tree.Find(keyOnly[K, V](key)); !it.IsEnd() {
		return it.Value().Val, nil
	}
	var zero V
	return zero, infra.WrapErrorStack(ErrKeyNotFound)
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if it := m.tree.Find(keyOnly[K, V](key)); !it.IsEnd() {
		return it.Value().Val, true
	}
	var zero V
	return zero, false
}

func (m *OrderedMap[K, V]) Find(key K) MapIterator[K, V] {
	return m.tree.Find(keyOnly[K, V](key))
}

func (m *OrderedMap[K, V]) Contains(key K) bool {
	return m.tree.Contains(keyOnly[K, V](key))
}

// Count is 0 or 1, the keys are unique.
func (m *OrderedMap[K, V]) Count(key K) int64 {
	if m.Contains(key) {
		return 1
	}
	return 0
}

func (m *OrderedMap[K, V]) Erase(it MapIterator[K, V]) MapIterator[K, V] {
	return m.tree.Erase(it)
}

func (m *OrderedMap[K, V]) EraseKey(key K) int64 {
	return m.tree.EraseValue(keyOnly[K, V](key))
}

func (m *OrderedMap[K, V]) EraseRange(first, last MapIterator[K, V]) MapIterator[K, V] {
	return m.tree.EraseRange(first, last)
}

func (m *OrderedMap[K, V]) LowerBound(key K) MapIterator[K, V] {
	return m.tree.LowerBound(keyOnly[K, V](key))
}

func (m *OrderedMap[K, V]) UpperBound(key K) MapIterator[K, V] {
	return m.tree.UpperBound(keyOnly[K, V](key))
}

func (m *OrderedMap[K, V]) EqualRange(key K) (MapIterator[K, V], MapIterator[K, V]) {
	return m.tree.EqualRange(keyOnly[K, V](key))
}

func (m *OrderedMap[K, V]) Begin() MapIterator[K, V] {
	return m.tree.Begin()
}

func (m *OrderedMap[K, V]) End() MapIterator[K, V] {
	return m.tree.End()
}

func (m *OrderedMap[K, V]) RBegin() MapIterator[K, V] {
	return m.tree.RBegin()
}

func (m *OrderedMap[K, V]) REnd() MapIterator[K, V] {
	return m.tree.REnd()
}

func (m *OrderedMap[K, V]) Range(first, last MapIterator[K, V]) iterator.Range[Pair[K, V]] {
	return m.tree.Range(first, last)
}

func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := range m.tree.All() {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := range m.tree.Backward() {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Pairs() iter.Seq[Pair[K, V]] {
	return m.tree.All()
}

// KeyRange exposes the keys of [first, last) as a bidirectional range.
func (m *OrderedMap[K, V]) KeyRange(first, last MapIterator[K, V]) iterator.Range[K] {
	return iterator.Map(m.tree.Range(first, last), func(p Pair[K, V]) K {
		return p.Key
	})
}

// ValueRange exposes the values of [first, last) in key order.
func (m *OrderedMap[K, V]) ValueRange(first, last MapIterator[K, V]) iterator.Range[V] {
	return iterator.Map(m.tree.Range(first, last), func(p Pair[K, V]) V {
		return p.Val
	})
}

func (m *OrderedMap[K, V]) Keys() []K {
	return iterator.Collect(m.KeyRange(m.Begin(), m.End()))
}

func (m *OrderedMap[K, V]) Values() []V {
	return iterator.Collect(m.ValueRange(m.Begin(), m.End()))
}

// Clone copies every pair by the allocator of the map.
func (m *OrderedMap[K, V]) Clone() (*OrderedMap[K, V], error) {
	dup, err := m.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &OrderedMap[K, V]{tree: dup}, nil
}

func (m *OrderedMap[K, V]) Swap(other *OrderedMap[K, V]) {
	if other == nil || other == m {
		return
	}
	m.tree, other.tree = other.tree, m.tree
}

func (m *OrderedMap[K, V]) Clear() {
	m.tree.Clear()
}
