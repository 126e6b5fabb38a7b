package tree

// Iterator is a position in the tree. The zero node is the end position.
//
// An iterator stays valid until the value it points to is erased. Erasing
// other values, inserting or rebalancing never moves a value between nodes.
type Iterator[T any] struct {
	node     *rbNode[T]
	tree     *rbTree[T]
	reversed bool
}

func (it Iterator[T]) IsEnd() bool {
	return it.node == nil
}

// Next moves to the following position in the iterator's direction.
// Next of the end position is still the end position.
func (it Iterator[T]) Next() Iterator[T] {
	if it.node == nil {
		return it
	}
	if it.reversed {
		it.node = it.node.pred()
	} else {
		it.node = it.node.succ()
	}
	return it
}

// Prev moves backward. Prev of the end position is the last value of the
// iterator's direction, so the tail is resolved from the tree.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.node == nil {
		if it.tree == nil {
			return it
		}
		if it.reversed {
			it.node = it.tree.root.minimum()
		} else {
			it.node = it.tree.root.maximum()
		}
		return it
	}
	if it.reversed {
		it.node = it.node.succ()
	} else {
		it.node = it.node.pred()
	}
	return it
}

// Value panics at the end position.
func (it Iterator[T]) Value() T {
	if it.node == nil {
		panic("[rbtree] dereference the end iterator")
	}
	return it.node.val
}

// Ref exposes the stored value in place. A change to the ordering part of
// the value breaks the tree.
func (it Iterator[T]) Ref() *T {
	if it.node == nil {
		return nil
	}
	return &it.node.val
}

func (it Iterator[T]) Node() RBNode[T] {
	if it.node == nil {
		return nil
	}
	return it.node
}

func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.node == other.node
}

// Distance counts the Next steps from first to last. It returns -1 if
// last is not reachable.
func Distance[T any](first, last Iterator[T]) int {
	n := 0
	for ; !first.Equal(last); first = first.Next() {
		if first.IsEnd() {
			return -1
		}
		n++
	}
	return n
}
