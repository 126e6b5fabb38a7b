package kv

import (
	"iter"

	"github.com/benz9527/xcontainer/lib/infra"
)

// SetEqual reports whether both sets hold the same count of equivalent
// values in the same order.
func SetEqual[T any](lhs, rhs *OrderedSet[T]) bool {
	if lhs.Len() != rhs.Len() {
		return false
	}
	return SetCompare(lhs, rhs) == 0
}

// SetCompare compares two sets lexicographically by the ordering of lhs.
// It returns -1, 0 or 1.
func SetCompare[T any](lhs, rhs *OrderedSet[T]) int64 {
	return infra.Lexicographic(lhs.Less(), lhs.All(), rhs.All())
}

// MapEqual requires equivalent keys and equal mapped values pairwise.
func MapEqual[K any, V comparable](lhs, rhs *OrderedMap[K, V]) bool {
	if lhs.Len() != rhs.Len() {
		return false
	}
	less := lhs.KeyLess()
	next, stop := iter.Pull2(rhs.All())
	defer stop()
	for k, v := range lhs.All() {
		rk, rv, ok := next()
		if !ok || less(k, rk) || less(rk, k) || v != rv {
			return false
		}
	}
	return true
}

// MapCompare compares the pairs lexicographically, the keys by the ordering
// of lhs first and then the mapped values by valLess.
func MapCompare[K any, V any](lhs, rhs *OrderedMap[K, V], valLess infra.LessFunc[V]) int64 {
	keyLess := lhs.KeyLess()
	less := func(a, b Pair[K, V]) bool {
		if keyLess(a.Key, b.Key) {
			return true
		}
		if keyLess(b.Key, a.Key) {
			return false
		}
		return valLess(a.Val, b.Val)
	}
	return infra.Lexicographic[Pair[K, V]](less, lhs.Pairs(), rhs.Pairs())
}
