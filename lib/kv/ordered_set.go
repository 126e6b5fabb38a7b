package kv

import (
	"iter"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/iterator"
	"github.com/benz9527/xcontainer/lib/tree"
)

type SetIterator[T any] = tree.Iterator[T]

// OrderedSet keeps unique values ordered by the comparator.
type OrderedSet[T any] struct {
	tree tree.RBTree[T]
}

func NewOrderedSet[T any](less infra.LessFunc[T], opts ...tree.RBTreeOpt[T]) *OrderedSet[T] {
	return &OrderedSet[T]{
		tree: tree.NewRBTree[T](less, opts...),
	}
}

func NewOrderedKeySet[T infra.OrderedKey](opts ...tree.RBTreeOpt[T]) *OrderedSet[T] {
	return &OrderedSet[T]{
		tree: tree.NewOrderedRBTree[T](opts...),
	}
}

func (s *OrderedSet[T]) Less() infra.LessFunc[T] {
	return s.tree.Less()
}

func (s *OrderedSet[T]) Len() int64 {
	return s.tree.Len()
}

func (s *OrderedSet[T]) Empty() bool {
	return s.tree.Empty()
}

func (s *OrderedSet[T]) Insert(val T) (SetIterator[T], bool, error) {
	return s.tree.Insert(val)
}

func (s *OrderedSet[T]) InsertRange(r iterator.Range[T]) error {
	return s.tree.InsertRange(r)
}

func (s *OrderedSet[T]) Find(val T) SetIterator[T] {
	return s.tree.Find(val)
}

func (s *OrderedSet[T]) Contains(val T) bool {
	return s.tree.Contains(val)
}

func (s *OrderedSet[T]) Count(val T) int64 {
	if s.tree.Contains(val) {
		return 1
	}
	return 0
}

func (s *OrderedSet[T]) Erase(it SetIterator[T]) SetIterator[T] {
	return s.tree.Erase(it)
}

func (s *OrderedSet[T]) EraseValue(val T) int64 {
	return s.tree.EraseValue(val)
}

func (s *OrderedSet[T]) EraseRange(first, last SetIterator[T]) SetIterator[T] {
	return s.tree.EraseRange(first, last)
}

func (s *OrderedSet[T]) LowerBound(val T) SetIterator[T] {
	return s.tree.LowerBound(val)
}

func (s *OrderedSet[T]) UpperBound(val T) SetIterator[T] {
	return s.tree.UpperBound(val)
}

func (s *OrderedSet[T]) EqualRange(val T) (SetIterator[T], SetIterator[T]) {
	return s.tree.EqualRange(val)
}

func (s *OrderedSet[T]) Begin() SetIterator[T] {
	return s.tree.Begin()
}

func (s *OrderedSet[T]) End() SetIterator[T] {
	return s.tree.End()
}

func (s *OrderedSet[T]) RBegin() SetIterator[T] {
	return s.tree.RBegin()
}

func (s *OrderedSet[T]) REnd() SetIterator[T] {
	return s.tree.REnd()
}

func (s *OrderedSet[T]) Min() (T, bool) {
	return s.tree.Min()
}

func (s *OrderedSet[T]) Max() (T, bool) {
	return s.tree.Max()
}

func (s *OrderedSet[T]) Range(first, last SetIterator[T]) iterator.Range[T] {
	return s.tree.Range(first, last)
}

func (s *OrderedSet[T]) All() iter.Seq[T] {
	return s.tree.All()
}

func (s *OrderedSet[T]) Backward() iter.Seq[T] {
	return s.tree.Backward()
}

func (s *OrderedSet[T]) Values() []T {
	values := make([]T, 0, s.tree.Len())
	for v := range s.tree.All() {
		values = append(values, v)
	}
	return values
}

func (s *OrderedSet[T]) Clone() (*OrderedSet[T], error) {
	dup, err := s.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &OrderedSet[T]{tree: dup}, nil
}

func (s *OrderedSet[T]) Swap(other *OrderedSet[T]) {
	if other == nil || other == s {
		return
	}
	s.tree, other.tree = other.tree, s.tree
}

func (s *OrderedSet[T]) Clear() {
	s.tree.Clear()
}
