package alloc

import "errors"

var (
	ErrExceedsMaxSize  = errors.New("[alloc] requested slots exceed the max size")
	ErrConstructFailed = errors.New("[alloc] unable to construct element")
)

// Allocator is the memory customization point of the containers.
// Containers never touch raw slots directly, every slot lifecycle event
// goes through the allocator:
//
//	Allocate -> Construct -> ... -> Destroy -> Deallocate
//
// A slot returned by Allocate holds the zero value and is considered
// unconstructed until Construct succeeds on it.
type Allocator[T any] interface {
	// Allocate returns n unconstructed slots.
	Allocate(n int) ([]T, error)
	// Deallocate releases the slots returned by Allocate.
	Deallocate(buf []T)
	// Construct copies val into the unconstructed slot.
	// A non-nil error means the slot is still unconstructed.
	Construct(slot *T, val T) error
	// Destroy turns a constructed slot back to unconstructed.
	Destroy(slot *T)
	// MaxSize is the max number of slots a single Allocate could return.
	MaxSize() int
}
