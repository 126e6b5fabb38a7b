package iterator

import (
	"iter"
)

type sliceRange[T any] struct {
	values []T
	cursor int
}

func (r *sliceRange[T]) Category() Category { return RandomAccess }

func (r *sliceRange[T]) Next() (T, bool) {
	if r.cursor >= len(r.values) {
		var zero T
		return zero, false
	}
	v := r.values[r.cursor]
	r.cursor++
	return v, true
}

func (r *sliceRange[T]) Len() int {
	return len(r.values) - r.cursor
}

// FromSlice traverses the values without copying them.
func FromSlice[T any](values []T) Range[T] {
	return &sliceRange[T]{values: values}
}

func FromValues[T any](values ...T) Range[T] {
	return FromSlice[T](values)
}

type repeatRange[T any] struct {
	val T
	n   int
}

func (r *repeatRange[T]) Category() Category { return RandomAccess }

func (r *repeatRange[T]) Next() (T, bool) {
	if r.n <= 0 {
		var zero T
		return zero, false
	}
	r.n--
	return r.val, true
}

func (r *repeatRange[T]) Len() int { return r.n }

// Repeat yields n copies of v.
func Repeat[T any](n int, v T) Range[T] {
	return &repeatRange[T]{val: v, n: max(n, 0)}
}

type seqRange[T any] struct {
	next func() (T, bool)
	stop func()
	done bool
}

func (r *seqRange[T]) Category() Category { return Input }

func (r *seqRange[T]) Next() (T, bool) {
	if r.done {
		var zero T
		return zero, false
	}
	v, ok := r.next()
	if !ok {
		r.done = true
		r.stop()
	}
	return v, ok
}

func (r *seqRange[T]) Len() int { return -1 }

// FromSeq adapts a single pass iterator. The length is unknown.
func FromSeq[T any](seq iter.Seq[T]) Range[T] {
	next, stop := iter.Pull(seq)
	return &seqRange[T]{next: next, stop: stop}
}

type funcRange[T any] struct {
	next func() (T, bool)
	size func() int
	cat  Category
}

func (r *funcRange[T]) Category() Category { return r.cat }
func (r *funcRange[T]) Next() (T, bool)    { return r.next() }
func (r *funcRange[T]) Len() int {
	if r.cat == Input || r.size == nil {
		return -1
	}
	return r.size()
}

// FromFunc builds a range by closures, it is used by the containers to expose
// their sub-ranges.
func FromFunc[T any](cat Category, next func() (T, bool), size func() int) Range[T] {
	return &funcRange[T]{next: next, size: size, cat: cat}
}

// Seq drains r as a range-over-func iterator.
func Seq[T any](r Range[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, ok := r.Next(); ok; v, ok = r.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Collect drains r into a new slice.
func Collect[T any](r Range[T]) []T {
	if r == nil {
		return nil
	}
	size := 0
	if r.Category().AtLeast(Forward) {
		size = max(r.Len(), 0)
	}
	res := make([]T, 0, size)
	for v := range Seq(r) {
		res = append(res, v)
	}
	return res
}

// Distance returns the remaining count of r. An Input source has to be
// drained to be measured, so the drained values are returned at the same time
// and r must not be used any more.
func Distance[T any](r Range[T]) (int, []T) {
	if r.Category().AtLeast(Forward) {
		return r.Len(), nil
	}
	values := Collect(r)
	return len(values), values
}

// Map transforms every value of r, the category is kept.
func Map[T, R any](r Range[T], fn func(T) R) Range[R] {
	cat := r.Category()
	return FromFunc[R](cat, func() (R, bool) {
		v, ok := r.Next()
		if !ok {
			var zero R
			return zero, false
		}
		return fn(v), true
	}, r.Len)
}
