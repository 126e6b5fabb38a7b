package tree

import (
	"iter"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/iterator"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	if c == Red {
		return "Red"
	}
	return "Black"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
	}
	return "Root"
}

// RBNode is the read-only view of a tree node.
type RBNode[T any] interface {
	Val() T
	Color() RBColor
	Left() RBNode[T]
	Right() RBNode[T]
	Parent() RBNode[T]
}

// RBTree is an ordered unique-value container. Values are ordered by a strict
// weak ordering; two values are equal if neither is less than the other.
//
// The tree is not thread safe.
type RBTree[T any] interface {
	Len() int64
	Empty() bool
	Root() RBNode[T]
	Less() infra.LessFunc[T]

	// Insert returns the iterator of the equal value and false if it is
	// already present, nothing is changed.
	Insert(val T) (Iterator[T], bool, error)
	InsertRange(r iterator.Range[T]) error
	// Erase removes the value at it and returns its successor.
	Erase(it Iterator[T]) Iterator[T]
	EraseValue(val T) int64
	EraseRange(first, last Iterator[T]) Iterator[T]
	RemoveMin() (T, bool)
	RemoveMax() (T, bool)

	Find(val T) Iterator[T]
	Contains(val T) bool
	// LowerBound returns the first value not less than val.
	LowerBound(val T) Iterator[T]
	// UpperBound returns the first value greater than val.
	UpperBound(val T) Iterator[T]
	EqualRange(val T) (Iterator[T], Iterator[T])

	Begin() Iterator[T]
	End() Iterator[T]
	RBegin() Iterator[T]
	REnd() Iterator[T]
	Min() (T, bool)
	Max() (T, bool)

	Foreach(action func(idx int64, color RBColor, val T) bool)
	All() iter.Seq[T]
	Backward() iter.Seq[T]
	// Range exposes [first, last) as a bidirectional range source.
	Range(first, last Iterator[T]) iterator.Range[T]

	// Clone rebuilds a new tree by inserting every value again.
	Clone() (RBTree[T], error)
	Swap(other RBTree[T])
	Clear()
	Release()
}
