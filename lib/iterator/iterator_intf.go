package iterator

// Category is the traversal capability of a range source. Range accepting
// operations check it once per call to pick the algorithm:
// only Forward-or-better sources could be measured before traversal.
type Category uint8

const (
	// Input is a single pass source, the length is unknown until drained.
	Input Category = iota
	// Forward is a multi-pass source with a known length.
	Forward
	// Bidirectional is able to step backward as well.
	Bidirectional
	// RandomAccess is able to jump to any position in O(1).
	RandomAccess
)

func (c Category) String() string {
	switch c {
	case Input:
		return "Input"
	case Forward:
		return "Forward"
	case Bidirectional:
		return "Bidirectional"
	case RandomAccess:
		return "RandomAccess"
	default:
	}
	return "Unknown"
}

// AtLeast reports whether c supports all the capabilities of target.
func (c Category) AtLeast(target Category) bool {
	return c >= target
}

// Range is a half-open source of values.
type Range[T any] interface {
	Category() Category
	// Next returns the next value and false once the range is drained.
	Next() (T, bool)
	// Len returns the number of remaining values.
	// Input sources return -1.
	Len() int
}
