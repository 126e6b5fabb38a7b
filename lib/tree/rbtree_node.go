package tree

// The child links own the subtree, the parent link is only a back reference
// to walk upward in O(1).
type rbNode[T any] struct {
	parent *rbNode[T]
	left   *rbNode[T]
	right  *rbNode[T]
	val    T
	color  RBColor
}

func (node *rbNode[T]) Color() RBColor {
	return node.color
}

func (node *rbNode[T]) Val() T {
	return node.val
}

func (node *rbNode[T]) Left() RBNode[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[T]) Parent() RBNode[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[T]) Right() RBNode[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// The nil leaves are black.
func (node *rbNode[T]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[T]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[T]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[T]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[T]) sibling() *rbNode[T] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[T]) uncle() *rbNode[T] {
	return node.parent.sibling()
}

func (node *rbNode[T]) grandpa() *rbNode[T] {
	return node.parent.parent
}

func (node *rbNode[T]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[T]) minimum() *rbNode[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[T]) maximum() *rbNode[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[T]) pred() *rbNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to the first ancestor whose right subtree contains x.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[T]) succ() *rbNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor whose left subtree contains x.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}
