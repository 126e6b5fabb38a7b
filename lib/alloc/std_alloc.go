package alloc

import (
	"fmt"
	"math"

	"github.com/benz9527/xcontainer/lib/infra"
)

const DefaultMaxSize = math.MaxInt32

var _ Allocator[struct{}] = (*stdAllocator[struct{}])(nil)

type stdAllocator[T any] struct {
	constructor func(dst *T, src T) error
	destructor  func(slot *T)
	maxSize     int
}

func (a *stdAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > a.maxSize {
		return nil, infra.WrapErrorStackWithMessage(ErrExceedsMaxSize,
			fmt.Sprintf("allocate %d slots, max size %d", n, a.maxSize))
	}
	return make([]T, n), nil
}

func (a *stdAllocator[T]) Deallocate(buf []T) {
	clear(buf)
}

func (a *stdAllocator[T]) Construct(slot *T, val T) error {
	if a.constructor == nil {
		*slot = val
		return nil
	}
	if err := a.constructor(slot, val); err != nil {
		var zero T
		*slot = zero
		return fmt.Errorf("%w: %w", ErrConstructFailed, err)
	}
	return nil
}

func (a *stdAllocator[T]) Destroy(slot *T) {
	if a.destructor != nil {
		a.destructor(slot)
	}
	var zero T
	*slot = zero
}

func (a *stdAllocator[T]) MaxSize() int {
	return a.maxSize
}

type AllocatorOption[T any] func(*stdAllocator[T])

func WithMaxSize[T any](n int) AllocatorOption[T] {
	return func(a *stdAllocator[T]) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

// WithConstructor replaces the plain assignment copy, i.e. a deep copy.
// The constructor could fail and the failure will be propagated to the
// container operation.
func WithConstructor[T any](fn func(dst *T, src T) error) AllocatorOption[T] {
	return func(a *stdAllocator[T]) {
		a.constructor = fn
	}
}

func WithDestructor[T any](fn func(slot *T)) AllocatorOption[T] {
	return func(a *stdAllocator[T]) {
		a.destructor = fn
	}
}

func NewStdAllocator[T any](opts ...AllocatorOption[T]) Allocator[T] {
	a := &stdAllocator[T]{
		maxSize: DefaultMaxSize,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}
