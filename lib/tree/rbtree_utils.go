package tree

import (
	"errors"
)

var (
	ErrRedViolation   = errors.New("rbtree red violation")
	ErrBlackViolation = errors.New("rbtree black violation")
	ErrRedRoot        = errors.New("rbtree red root")
	ErrOrderViolation = errors.New("rbtree order violation")
)

func isBlack[T any](node RBNode[T]) bool {
	return node == nil || node.Color() == Black
}

func isRed[T any](node RBNode[T]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[T any](target, to RBNode[T]) int {
	depth := 0
	for aux := target; aux != nil && aux != to; aux = aux.Parent() {
		if isBlack[T](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[T any](tree RBTree[T]) error {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[T], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for n := len(stack); n > 0; n = len(stack) {
		if aux = stack[n-1]; isRed[T](aux) {
			if isRed[T](aux.Parent()) || isRed[T](aux.Left()) || isRed[T](aux.Right()) {
				return ErrRedViolation
			}
		}

		stack = stack[:n-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes which own at least one nil leaf.
func bfsLeaves[T any](tree RBTree[T]) []RBNode[T] {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	leaves := make([]RBNode[T], 0, size>>1+1)
	queue := make([]RBNode[T], 0, size>>1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[T any](tree RBTree[T]) error {
	leaves := bfsLeaves[T](tree)
	if leaves == nil {
		return nil
	}

	root := tree.Root()
	blackDepth := blackDepthTo[T](leaves[0], root)
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo[T](leaves[i], root) != blackDepth {
			return ErrBlackViolation
		}
	}
	return nil
}

func RootColorValidate[T any](tree RBTree[T]) error {
	if isRed[T](tree.Root()) {
		return ErrRedRoot
	}
	return nil
}

// OrderValidate checks the inorder values are strictly ascending and the
// element count matches.
func OrderValidate[T any](tree RBTree[T]) error {
	var (
		prev  T
		count int64
	)
	less := tree.Less()
	for v := range tree.All() {
		if count > 0 && !less(prev, v) {
			return ErrOrderViolation
		}
		prev = v
		count++
	}
	if count != tree.Len() {
		return ErrOrderViolation
	}
	return nil
}

// Validate runs all the rbtree property checks.
func Validate[T any](tree RBTree[T]) error {
	return errors.Join(
		RootColorValidate[T](tree),
		RedViolationValidate[T](tree),
		BlackViolationValidate[T](tree),
		OrderValidate[T](tree),
	)
}
