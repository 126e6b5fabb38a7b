package stack

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/vector"
)

var ErrEmpty = errors.New("[stack] empty")

// BackInsertionContainer is the underlying sequence of a stack.
// Back is only called on a non-empty container.
type BackInsertionContainer[T any] interface {
	PushBack(v T) error
	PopBack()
	Back() T
	Len() int
}

var _ BackInsertionContainer[int] = (*vector.Vector[int])(nil)

// Stack is a LIFO adapter, the top is the back of the container.
type Stack[T any] struct {
	c BackInsertionContainer[T]
}

type StackOption[T any] func(*Stack[T])

func WithContainer[T any](c BackInsertionContainer[T]) StackOption[T] {
	return func(s *Stack[T]) {
		if c != nil {
			s.c = c
		}
	}
}

// New is backed by a vector by default.
func New[T any](opts ...StackOption[T]) *Stack[T] {
	s := &Stack[T]{}
	for _, o := range opts {
		o(s)
	}
	if s.c == nil {
		s.c = vector.New[T]()
	}
	return s
}

func (s *Stack[T]) Push(v T) error {
	return s.c.PushBack(v)
}

// PushAll pushes every value, a failed value is skipped and its error is
// combined into the result.
func (s *Stack[T]) PushAll(values ...T) error {
	var merr error
	for _, v := range values {
		merr = multierr.Append(merr, s.c.PushBack(v))
	}
	return merr
}

func (s *Stack[T]) Pop() (T, error) {
	if s.c.Len() == 0 {
		var zero T
		return zero, infra.WrapErrorStack(ErrEmpty)
	}
	v := s.c.Back()
	s.c.PopBack()
	return v, nil
}

func (s *Stack[T]) Top() (T, error) {
	if s.c.Len() == 0 {
		var zero T
		return zero, infra.WrapErrorStack(ErrEmpty)
	}
	return s.c.Back(), nil
}

func (s *Stack[T]) Len() int {
	return s.c.Len()
}

func (s *Stack[T]) Empty() bool {
	return s.c.Len() == 0
}

func (s *Stack[T]) Container() BackInsertionContainer[T] {
	return s.c
}
