package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStdAllocator(t *testing.T) {
	a := NewStdAllocator[int](WithMaxSize[int](8))
	require.Equal(t, 8, a.MaxSize())

	buf, err := a.Allocate(0)
	require.NoError(t, err)
	require.Nil(t, buf)

	_, err = a.Allocate(9)
	require.ErrorIs(t, err, ErrExceedsMaxSize)

	buf, err = a.Allocate(4)
	require.NoError(t, err)
	require.Len(t, buf, 4)
	for i := range buf {
		require.NoError(t, a.Construct(&buf[i], i+1))
	}
	require.Equal(t, []int{1, 2, 3, 4}, buf)

	a.Destroy(&buf[3])
	require.Equal(t, 0, buf[3])
	a.Deallocate(buf)
	require.Equal(t, []int{0, 0, 0, 0}, buf)
}

func TestStdAllocatorConstructorAndDestructor(t *testing.T) {
	errBoom := errors.New("boom")
	destroyed := 0
	a := NewStdAllocator[[]int](
		WithConstructor(func(dst *[]int, src []int) error {
			if len(src) > 2 {
				return errBoom
			}
			*dst = append([]int(nil), src...)
			return nil
		}),
		WithDestructor(func(slot *[]int) {
			destroyed++
		}),
	)
	require.Equal(t, DefaultMaxSize, a.MaxSize())

	src := []int{1, 2}
	var slot []int
	require.NoError(t, a.Construct(&slot, src))
	src[0] = 100
	require.Equal(t, []int{1, 2}, slot)

	err := a.Construct(&slot, []int{1, 2, 3})
	require.ErrorIs(t, err, errBoom)
	require.ErrorIs(t, err, ErrConstructFailed)
	require.Nil(t, slot)

	slot = []int{1}
	a.Destroy(&slot)
	require.Nil(t, slot)
	require.Equal(t, 1, destroyed)
}
