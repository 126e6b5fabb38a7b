package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// LessFunc is the strict weak ordering every ordered container is built on.
// less(a, b) reports whether a must be placed before b. Two values are
// considered equivalent when neither is less than the other.
type LessFunc[T any] func(a, b T) bool

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

func Less[K OrderedKey](i, j K) bool {
	return i < j
}

func Greater[K OrderedKey](i, j K) bool {
	return i > j
}

// Compare turns a strict weak ordering into a three-way result.
func Compare[T any](less LessFunc[T], i, j T) int64 {
	if less(i, j) {
		return -1
	} else if less(j, i) {
		return 1
	}
	return 0
}

// Reverse flips the ordering, the desc order of containers.
func Reverse[T any](less LessFunc[T]) LessFunc[T] {
	return func(a, b T) bool {
		return less(b, a)
	}
}

// Lexicographic compares two finite sequences element by element.
// The shorter sequence is less if it is a prefix of the longer one.
func Lexicographic[T any](less LessFunc[T], lhs, rhs func(yield func(T) bool)) int64 {
	var (
		rvals []T
		res   int64
	)
	rhs(func(v T) bool {
		rvals = append(rvals, v)
		return true
	})
	idx := 0
	lhs(func(v T) bool {
		if idx >= len(rvals) {
			res = 1
			return false
		}
		if res = Compare(less, v, rvals[idx]); res != 0 {
			return false
		}
		idx++
		return true
	})
	if res == 0 && idx < len(rvals) {
		return -1
	}
	return res
}
