package vector

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/alloc"
	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/iterator"
	"github.com/benz9527/xcontainer/lib/xlog"
)

var (
	ErrCapacityExceeded = errors.New("[vector] capacity exceeded")
	ErrOutOfRange       = errors.New("[vector] index out of range")
	errShortRange       = errors.New("[vector] range is shorter than its length")
)

// Vector is a contiguous growable sequence.
//
// The slots [0, size) of buf are constructed, the slots [size, len(buf)) are
// unconstructed and hold the zero value. Every slot lifecycle event goes
// through the allocator.
//
// It is not thread safe.
type Vector[T any] struct {
	buf    []T
	size   int
	alloc  alloc.Allocator[T]
	logger xlog.XLogger
}

type VectorOption[T any] func(*Vector[T])

func WithAllocator[T any](a alloc.Allocator[T]) VectorOption[T] {
	return func(v *Vector[T]) {
		if a != nil {
			v.alloc = a
		}
	}
}

func WithVectorLogger[T any](logger xlog.XLogger) VectorOption[T] {
	return func(v *Vector[T]) {
		if logger != nil {
			v.logger = logger.Named("vector")
		}
	}
}

func New[T any](opts ...VectorOption[T]) *Vector[T] {
	v := &Vector[T]{
		alloc:  alloc.NewStdAllocator[T](),
		logger: xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// NewWithSize returns a vector of n copies of val.
func NewWithSize[T any](n int, val T, opts ...VectorOption[T]) (*Vector[T], error) {
	v := New[T](opts...)
	if err := v.Assign(n, val); err != nil {
		return nil, err
	}
	return v, nil
}

func NewFromRange[T any](r iterator.Range[T], opts ...VectorOption[T]) (*Vector[T], error) {
	v := New[T](opts...)
	if _, err := v.InsertRange(0, r); err != nil {
		v.Clear()
		return nil, err
	}
	return v, nil
}

func (v *Vector[T]) Len() int {
	return v.size
}

func (v *Vector[T]) Cap() int {
	return len(v.buf)
}

func (v *Vector[T]) MaxSize() int {
	return v.alloc.MaxSize()
}

func (v *Vector[T]) Empty() bool {
	return v.size == 0
}

func (v *Vector[T]) capacityExceeded(n int) error {
	return infra.WrapErrorStackWithMessage(ErrCapacityExceeded,
		fmt.Sprintf("requested %d, max size %d", n, v.alloc.MaxSize()))
}

func (v *Vector[T]) outOfRange(i int) error {
	return infra.WrapErrorStackWithMessage(ErrOutOfRange,
		fmt.Sprintf("index %d, size %d", i, v.size))
}

// growCap returns the capacity for k more elements.
// The capacity is max(C, k) + C, clamped to the max size.
func (v *Vector[T]) growCap(k int) (int, error) {
	maxSize := v.alloc.MaxSize()
	if k > maxSize-v.size {
		return 0, v.capacityExceeded(v.size + k)
	}
	c := len(v.buf)
	if c > maxSize-max(c, k) {
		return maxSize, nil
	}
	return max(c, k) + c, nil
}

// destroyRange destroys the constructed slots [first, last).
func (v *Vector[T]) destroyRange(buf []T, first, last int) {
	for i := first; i < last; i++ {
		v.alloc.Destroy(&buf[i])
	}
}

// reallocate moves the elements into a new buffer of exactly newCap slots.
// The vector is unchanged on failure.
func (v *Vector[T]) reallocate(newCap int) error {
	newBuf, err := v.alloc.Allocate(newCap)
	if err != nil {
		v.logger.Error(err, "[vector] allocate failed", zap.Int("cap", newCap))
		return err
	}
	for i := 0; i < v.size; i++ {
		if err = v.alloc.Construct(&newBuf[i], v.buf[i]); err != nil {
			v.destroyRange(newBuf, 0, i)
			v.alloc.Deallocate(newBuf)
			v.logger.Error(err, "[vector] reallocate construct failed", zap.Int("index", i))
			return infra.WrapErrorStackWithMessage(err, "[vector] reallocate")
		}
	}
	v.logger.Debug("[vector] reallocate", zap.Int("from", len(v.buf)), zap.Int("to", newCap))
	v.destroyRange(v.buf, 0, v.size)
	v.alloc.Deallocate(v.buf)
	v.buf = newBuf
	return nil
}

// Reserve grows the capacity to exactly n if n exceeds the capacity.
func (v *Vector[T]) Reserve(n int) error {
	if n > v.alloc.MaxSize() {
		return v.capacityExceeded(n)
	}
	if n <= len(v.buf) {
		return nil
	}
	return v.reallocate(n)
}

// Resize destroys the trailing elements or appends copies of val.
// Shrinking keeps the capacity.
func (v *Vector[T]) Resize(n int, val T) error {
	if n < 0 {
		return v.outOfRange(n)
	}
	if n < v.size {
		v.destroyRange(v.buf, n, v.size)
		v.size = n
		return nil
	}
	_, err := v.InsertN(v.size, n-v.size, val)
	return err
}

// ShrinkToFit reallocates the buffer to the size.
func (v *Vector[T]) ShrinkToFit() error {
	if len(v.buf) == v.size {
		return nil
	}
	if v.size == 0 {
		v.alloc.Deallocate(v.buf)
		v.buf = nil
		return nil
	}
	return v.reallocate(v.size)
}

func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.size {
		var zero T
		return zero, v.outOfRange(i)
	}
	return v.buf[i], nil
}

// Get panics if i is out of range.
func (v *Vector[T]) Get(i int) T {
	return v.buf[:v.size][i]
}

// Ref is invalidated by any reallocation.
func (v *Vector[T]) Ref(i int) *T {
	return &v.buf[:v.size][i]
}

// Set copies val by the allocator, the old element is kept on failure.
func (v *Vector[T]) Set(i int, val T) error {
	if i < 0 || i >= v.size {
		return v.outOfRange(i)
	}
	var tmp T
	if err := v.alloc.Construct(&tmp, val); err != nil {
		return err
	}
	v.alloc.Destroy(&v.buf[i])
	v.buf[i] = tmp
	return nil
}

func (v *Vector[T]) Front() T {
	return v.Get(0)
}

func (v *Vector[T]) Back() T {
	return v.Get(v.size - 1)
}

// Data is a live view of the elements, invalidated by any reallocation.
func (v *Vector[T]) Data() []T {
	return v.buf[:v.size:v.size]
}

func (v *Vector[T]) PushBack(val T) error {
	_, err := v.InsertN(v.size, 1, val)
	return err
}

// PopBack on an empty vector does nothing.
func (v *Vector[T]) PopBack() {
	if v.size == 0 {
		return
	}
	v.size--
	v.alloc.Destroy(&v.buf[v.size])
}

// Insert returns the index of the inserted element.
func (v *Vector[T]) Insert(pos int, val T) (int, error) {
	return v.InsertN(pos, 1, val)
}

// InsertN inserts n copies of val before pos and returns pos.
func (v *Vector[T]) InsertN(pos, n int, val T) (int, error) {
	return v.insert(pos, n, func() (T, error) {
		return val, nil
	})
}

// InsertRange inserts the values of r before pos and returns pos.
// An Input range is single pass, it is buffered before the insertion. So is
// a range unable to report its length.
func (v *Vector[T]) InsertRange(pos int, r iterator.Range[T]) (int, error) {
	if r == nil {
		return pos, nil
	}
	n := r.Len()
	if !r.Category().AtLeast(iterator.Forward) || n < 0 {
		return v.insertValues(pos, iterator.Collect(r))
	}
	if _, err := v.insert(pos, n, func() (T, error) {
		val, ok := r.Next()
		if !ok {
			return val, infra.WrapErrorStack(errShortRange)
		}
		return val, nil
	}); err != nil {
		return pos, err
	}
	// Len under-reported the remaining values.
	if rest := iterator.Collect(r); len(rest) > 0 {
		v.logger.Warn("[vector] range is longer than its length",
			zap.Int("reported", n),
			zap.Int("remaining", len(rest)),
		)
		if _, err := v.insertValues(pos+n, rest); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

func (v *Vector[T]) insertValues(pos int, values []T) (int, error) {
	idx := 0
	return v.insert(pos, len(values), func() (T, error) {
		val := values[idx]
		idx++
		return val, nil
	})
}

func (v *Vector[T]) insert(pos, n int, next func() (T, error)) (int, error) {
	if pos < 0 || pos > v.size {
		return pos, v.outOfRange(pos)
	}
	if n <= 0 {
		return pos, nil
	}

	switch {
	case n > len(v.buf)-v.size:
		return pos, v.insertRealloc(pos, n, next)
	case pos == v.size:
		return pos, v.insertAtEnd(n, next)
	default:
	}
	return pos, v.insertInPlace(pos, n, next)
}

func (v *Vector[T]) construct(slot *T, next func() (T, error)) error {
	val, err := next()
	if err != nil {
		return err
	}
	return v.alloc.Construct(slot, val)
}

// The new tail is unwound on failure.
func (v *Vector[T]) insertAtEnd(n int, next func() (T, error)) error {
	for i := 0; i < n; i++ {
		if err := v.construct(&v.buf[v.size+i], next); err != nil {
			v.destroyRange(v.buf, v.size, v.size+i)
			v.logger.Error(err, "[vector] append failed", zap.Int("index", v.size+i))
			return err
		}
	}
	v.size += n
	return nil
}

// The suffix is shifted forward by n to open a gap for the new elements.
// A failure keeps the elements constructed so far, the suffix is shifted
// back behind them.
func (v *Vector[T]) insertInPlace(pos, n int, next func() (T, error)) error {
	size := v.size
	copy(v.buf[pos+n:size+n], v.buf[pos:size])
	clear(v.buf[pos : pos+n])
	for i := 0; i < n; i++ {
		if err := v.construct(&v.buf[pos+i], next); err != nil {
			copy(v.buf[pos+i:], v.buf[pos+n:size+n])
			clear(v.buf[size+i : size+n])
			v.size = size + i
			v.logger.Error(err, "[vector] insert failed, partially inserted",
				zap.Int("pos", pos),
				zap.Int("inserted", i),
				zap.Int("requested", n),
			)
			return err
		}
	}
	v.size = size + n
	return nil
}

// All the elements are copied into a new buffer. The vector is unchanged
// on failure.
func (v *Vector[T]) insertRealloc(pos, n int, next func() (T, error)) error {
	newCap, err := v.growCap(n)
	if err != nil {
		return err
	}
	newBuf, err := v.alloc.Allocate(newCap)
	if err != nil {
		v.logger.Error(err, "[vector] allocate failed", zap.Int("cap", newCap))
		return err
	}

	constructed := 0
	rollback := func(err error) error {
		v.destroyRange(newBuf, 0, constructed)
		v.alloc.Deallocate(newBuf)
		v.logger.Error(err, "[vector] insert rollback", zap.Int("pos", pos), zap.Int("count", n))
		return err
	}
	for ; constructed < pos; constructed++ {
		if err = v.alloc.Construct(&newBuf[constructed], v.buf[constructed]); err != nil {
			return rollback(err)
		}
	}
	for ; constructed < pos+n; constructed++ {
		if err = v.construct(&newBuf[constructed], next); err != nil {
			return rollback(err)
		}
	}
	for ; constructed < v.size+n; constructed++ {
		if err = v.alloc.Construct(&newBuf[constructed], v.buf[constructed-n]); err != nil {
			return rollback(err)
		}
	}

	v.logger.Debug("[vector] reallocate", zap.Int("from", len(v.buf)), zap.Int("to", newCap))
	v.destroyRange(v.buf, 0, v.size)
	v.alloc.Deallocate(v.buf)
	v.buf = newBuf
	v.size += n
	return nil
}

// Erase removes the element at pos and returns pos, the index of the next
// element.
func (v *Vector[T]) Erase(pos int) int {
	return v.EraseRange(pos, pos+1)
}

// EraseRange removes [first, last) and returns first. It never reallocates.
// It panics if the range is out of range.
func (v *Vector[T]) EraseRange(first, last int) int {
	if first < 0 || last > v.size || first > last {
		panic(fmt.Sprintf("[vector] erase range [%d, %d) out of size %d", first, last, v.size))
	}
	if first == last {
		return first
	}
	v.destroyRange(v.buf, first, last)
	copy(v.buf[first:], v.buf[last:v.size])
	newSize := v.size - (last - first)
	// The moved-from tail slots are unconstructed now.
	clear(v.buf[newSize:v.size])
	v.size = newSize
	return first
}

// Assign replaces the contents by n copies of val.
func (v *Vector[T]) Assign(n int, val T) error {
	if n > v.alloc.MaxSize() {
		return v.capacityExceeded(n)
	}
	v.destroyRange(v.buf, 0, v.size)
	v.size = 0
	_, err := v.InsertN(0, n, val)
	return err
}

func (v *Vector[T]) AssignRange(r iterator.Range[T]) error {
	v.destroyRange(v.buf, 0, v.size)
	v.size = 0
	_, err := v.InsertRange(0, r)
	return err
}

func (v *Vector[T]) Swap(other *Vector[T]) {
	if other == nil || other == v {
		return
	}
	v.buf, other.buf = other.buf, v.buf
	v.size, other.size = other.size, v.size
	v.alloc, other.alloc = other.alloc, v.alloc
	v.logger, other.logger = other.logger, v.logger
}

// Clear destroys the elements and deallocates the buffer.
func (v *Vector[T]) Clear() {
	v.destroyRange(v.buf, 0, v.size)
	v.alloc.Deallocate(v.buf)
	v.buf = nil
	v.size = 0
}

func (v *Vector[T]) Release() {
	v.Clear()
}

// Clone copies every element into a buffer of exactly the size.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	dup := &Vector[T]{
		alloc:  v.alloc,
		logger: v.logger,
	}
	if _, err := dup.InsertRange(0, iterator.FromSlice(v.Data())); err != nil {
		return nil, err
	}
	return dup, nil
}

func (v *Vector[T]) Equal(other *Vector[T], eq func(a, b T) bool) bool {
	if v.size != other.size {
		return false
	}
	for i := 0; i < v.size; i++ {
		if !eq(v.buf[i], other.buf[i]) {
			return false
		}
	}
	return true
}

// Compare compares lexicographically and returns -1, 0 or 1.
func (v *Vector[T]) Compare(other *Vector[T], less infra.LessFunc[T]) int64 {
	return infra.Lexicographic(less, v.Values(), other.Values())
}

func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.buf[i]) {
				return
			}
		}
	}
}

func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.size - 1; i >= 0; i-- {
			if !yield(i, v.buf[i]) {
				return
			}
		}
	}
}

func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(v.buf[i]) {
				return
			}
		}
	}
}

// Range exposes [first, last) as a random access range. The range is
// invalidated by any mutation of the vector.
func (v *Vector[T]) Range(first, last int) iterator.Range[T] {
	first, last = max(first, 0), min(last, v.size)
	cursor := first
	return iterator.FromFunc[T](iterator.RandomAccess,
		func() (T, bool) {
			if cursor >= last {
				var zero T
				return zero, false
			}
			val := v.buf[cursor]
			cursor++
			return val, true
		},
		func() int {
			return max(last-cursor, 0)
		},
	)
}
