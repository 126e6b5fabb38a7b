package tree

import (
	"iter"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/alloc"
	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/iterator"
	"github.com/benz9527/xcontainer/lib/xlog"
)

var _ RBTree[int] = (*rbTree[int])(nil)

type rbTree[T any] struct {
	root           *rbNode[T]
	count          int64
	less           infra.LessFunc[T]
	alloc          alloc.Allocator[T]
	logger         xlog.XLogger
	isDesc         bool
	isRmBorrowSucc bool
}

func (tree *rbTree[T]) compare(v1, v2 T) int64 {
	return infra.Compare(tree.less, v1, v2)
}

func (tree *rbTree[T]) Len() int64 {
	return tree.count
}

func (tree *rbTree[T]) Empty() bool {
	return tree.count == 0
}

func (tree *rbTree[T]) Root() RBNode[T] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[T]) Less() infra.LessFunc[T] {
	return tree.less
}

func (tree *rbTree[T]) iter(node *rbNode[T]) Iterator[T] {
	return Iterator[T]{node: node, tree: tree}
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[T]) leftRotate(x *rbNode[T]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[T]) rightRotate(x *rbNode[T]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
}

// rotateToward rotates x down to the dir side.
func (tree *rbTree[T]) rotateToward(x *rbNode[T], dir RBDirection) {
	if dir == Left {
		tree.leftRotate(x)
		return
	}
	tree.rightRotate(x)
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// The value is constructed before any link is touched, so a construct failure
// leaves the tree as it was.
func (tree *rbTree[T]) Insert(val T) (Iterator[T], bool, error) {
	var (
		x, y *rbNode[T] = tree.root, nil
		res  int64
	)
	for x != nil {
		y = x
		if res = tree.compare(val, x.val); /* equal */ res == 0 {
			return tree.iter(x), false, nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[T]{}
	if err := tree.alloc.Construct(&z.val, val); err != nil {
		tree.logger.Error(err, "[rbtree] construct value failed")
		return tree.End(), false, infra.WrapErrorStackWithMessage(err, "[rbtree] insert")
	}

	if /* i1 */ y == nil {
		z.color = Black
		tree.root = z
		tree.count++
		return tree.iter(z), true, nil
	}

	z.parent, z.color = y, Red
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.count++
	tree.insertRebalance(z)
	return tree.iter(z), true, nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black, so hold p3 and p4.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[T]) insertRebalance(x *rbNode[T]) {
	for x != nil {
		if x.isRoot() {
			x.color = Black
			return
		}

		if /* im1 */ x.parent.isBlack() {
			return
		}

		if /* im2 */ x.parent.isRoot() {
			x.parent.color = Black
			return
		}

		if /* im3 */ uncle := x.uncle(); uncle.isRed() {
			tree.logger.Debug("[rbtree] insert rebalance", zap.String("case", "im3"))
			x.parent.color = Black
			uncle.color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		dir := x.Direction()
		if /* im4 */ dir != x.parent.Direction() {
			tree.logger.Debug("[rbtree] insert rebalance", zap.String("case", "im4"))
			p := x.parent
			// Rotate P down to the opposite side of X.
			tree.rotateToward(p, -dir)
			x = p // enter im5 to fix
		}

		/* im5 */
		tree.logger.Debug("[rbtree] insert rebalance", zap.String("case", "im5"))
		tree.rotateToward(x.grandpa(), -x.parent.Direction())
		x.parent.color = Black
		x.sibling().color = Red
		return
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node X has left and right node.
Find node X's pred (or succ) Y and exchange the positions and colors of X
and Y in the tree. The values are not moved, so every iterator of the
other values keeps pointing to its value.
After exchanged, X has one child at most.

	  |                    |
	  X                    Y
	 / \                  / \
	L  ..   swap(X, Y)   L  ..
	 \      =========>    \
	  Y                    X
	 /                    /
	C                    C

r3: (1) Current node X is a red leaf node, remove directly.

r3: (2) Current node X is a black leaf node, we have to rebalance before
unlinking it. (black-violation)

r4: Current node X is not a leaf node but contains a not nil child node.
The child node must be a red node. (See conclusion. Otherwise, black-violation)
Replace X by the child and repaint the child into black.
*/
func (tree *rbTree[T]) removeNode(x *rbNode[T]) {
	if /* r2 */ x.left != nil && x.right != nil {
		var y *rbNode[T]
		if tree.isRmBorrowSucc {
			y = x.right.minimum()
		} else {
			y = x.left.maximum()
		}
		tree.swapNodes(x, y) // enter r1, r3, r4
	}

	child := x.left
	if child == nil {
		child = x.right
	}

	switch {
	case /* r4 */ child != nil:
		switch x.Direction() {
		case Root:
			tree.root = child
		case Left:
			x.parent.left = child
		case Right:
			x.parent.right = child
		default:
		}
		child.parent = x.parent
		child.color = Black
	case /* r1 */ x.isRoot():
		tree.root = nil
	default:
		if /* r3 (2) */ x.isBlack() {
			tree.removeRebalance(x)
		}
		// Unlink the leaf node.
		if x == x.parent.left {
			x.parent.left = nil
		} else {
			x.parent.right = nil
		}
	}

	x.parent, x.left, x.right = nil, nil, nil
	tree.count--
	tree.alloc.Destroy(&x.val)
}

// swapNodes exchanges the positions and colors of x and its descendant y.
func (tree *rbTree[T]) swapNodes(x, y *rbNode[T]) {
	xp, xl, xr := x.parent, x.left, x.right
	yp, yl, yr := y.parent, y.left, y.right
	xDir, yDir := x.Direction(), y.Direction()

	x.color, y.color = y.color, x.color
	y.parent = xp
	if /* y is a direct child of x */ yp == x {
		if yDir == Left {
			y.left, y.right = x, xr
		} else {
			y.left, y.right = xl, x
		}
	} else {
		y.left, y.right = xl, xr
		x.parent = yp
		if yDir == Left {
			yp.left = x
		} else {
			yp.right = x
		}
	}
	x.left, x.right = yl, yr

	switch xDir {
	case Root:
		tree.root = y
	case Left:
		xp.left = y
	case Right:
		xp.right = y
	default:
	}
	y.fixLink()
	x.fixLink()
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Unable to satisfy p3 and p4. We have to paint the S into red to satisfy
p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black and nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[T]) removeRebalance(x *rbNode[T]) {
	for !x.isRoot() {
		dir := x.Direction()
		sibling := x.sibling()
		if /* rm1 */ sibling.isRed() {
			tree.logger.Debug("[rbtree] remove rebalance", zap.String("case", "rm1"))
			tree.rotateToward(x.parent, dir)
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode[T]
		if dir == Left {
			sc, sd = sibling.left, sibling.right
		} else {
			sc, sd = sibling.right, sibling.left
		}

		if sc.isBlack() && sd.isBlack() {
			sibling.color = Red
			if /* rm2 */ x.parent.isRed() {
				tree.logger.Debug("[rbtree] remove rebalance", zap.String("case", "rm2"))
				x.parent.color = Black
				return
			}
			/* rm3 */
			tree.logger.Debug("[rbtree] remove rebalance", zap.String("case", "rm3"))
			x = x.parent
			continue
		}

		if /* rm4 */ sd.isBlack() {
			tree.logger.Debug("[rbtree] remove rebalance", zap.String("case", "rm4"))
			tree.rotateToward(sibling, -dir)
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			if dir == Left {
				sd = sibling.right
			} else {
				sd = sibling.left
			}
		}

		/* rm5 */
		tree.logger.Debug("[rbtree] remove rebalance", zap.String("case", "rm5"))
		tree.rotateToward(x.parent, dir)
		sibling.color = x.parent.color
		x.parent.color = Black
		sd.color = Black
		return
	}
}

func (tree *rbTree[T]) InsertRange(r iterator.Range[T]) error {
	if r == nil {
		return nil
	}
	for v, ok := r.Next(); ok; v, ok = r.Next() {
		if _, _, err := tree.Insert(v); err != nil {
			return err
		}
	}
	return nil
}

// Erase with an iterator from another tree is undefined behavior.
func (tree *rbTree[T]) Erase(it Iterator[T]) Iterator[T] {
	if it.node == nil {
		return tree.End()
	}
	next := it.node.succ()
	tree.removeNode(it.node)
	return tree.iter(next)
}

func (tree *rbTree[T]) EraseValue(val T) int64 {
	z := tree.search(val)
	if z == nil {
		return 0
	}
	tree.removeNode(z)
	return 1
}

func (tree *rbTree[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	for first.node != nil && first.node != last.node {
		first = tree.Erase(first)
	}
	return tree.iter(last.node)
}

func (tree *rbTree[T]) RemoveMin() (T, bool) {
	_min := tree.root.minimum()
	if _min == nil {
		var zero T
		return zero, false
	}
	val := _min.val
	tree.removeNode(_min)
	return val, true
}

func (tree *rbTree[T]) RemoveMax() (T, bool) {
	_max := tree.root.maximum()
	if _max == nil {
		var zero T
		return zero, false
	}
	val := _max.val
	tree.removeNode(_max)
	return val, true
}

func (tree *rbTree[T]) search(val T) *rbNode[T] {
	for aux := tree.root; aux != nil; {
		res := tree.compare(val, aux.val)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

func (tree *rbTree[T]) Find(val T) Iterator[T] {
	return tree.iter(tree.search(val))
}

func (tree *rbTree[T]) Contains(val T) bool {
	return tree.search(val) != nil
}

func (tree *rbTree[T]) LowerBound(val T) Iterator[T] {
	var res *rbNode[T]
	for aux := tree.root; aux != nil; {
		if !tree.less(aux.val, val) {
			res = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return tree.iter(res)
}

func (tree *rbTree[T]) UpperBound(val T) Iterator[T] {
	var res *rbNode[T]
	for aux := tree.root; aux != nil; {
		if tree.less(val, aux.val) {
			res = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return tree.iter(res)
}

func (tree *rbTree[T]) EqualRange(val T) (Iterator[T], Iterator[T]) {
	return tree.LowerBound(val), tree.UpperBound(val)
}

func (tree *rbTree[T]) Begin() Iterator[T] {
	return tree.iter(tree.root.minimum())
}

func (tree *rbTree[T]) End() Iterator[T] {
	return tree.iter(nil)
}

func (tree *rbTree[T]) RBegin() Iterator[T] {
	return Iterator[T]{node: tree.root.maximum(), tree: tree, reversed: true}
}

func (tree *rbTree[T]) REnd() Iterator[T] {
	return Iterator[T]{tree: tree, reversed: true}
}

func (tree *rbTree[T]) Min() (T, bool) {
	if _min := tree.root.minimum(); _min != nil {
		return _min.val, true
	}
	var zero T
	return zero, false
}

func (tree *rbTree[T]) Max() (T, bool) {
	if _max := tree.root.maximum(); _max != nil {
		return _max.val, true
	}
	var zero T
	return zero, false
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[T]) Foreach(action func(idx int64, color RBColor, val T) bool) {
	aux := tree.root
	if tree.count <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[T], 0, tree.count>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for aux := tree.root.minimum(); aux != nil; aux = aux.succ() {
			if !yield(aux.val) {
				return
			}
		}
	}
}

func (tree *rbTree[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for aux := tree.root.maximum(); aux != nil; aux = aux.pred() {
			if !yield(aux.val) {
				return
			}
		}
	}
}

func (tree *rbTree[T]) Range(first, last Iterator[T]) iterator.Range[T] {
	cursor := first
	return iterator.FromFunc[T](iterator.Bidirectional,
		func() (T, bool) {
			if cursor.Equal(last) || cursor.IsEnd() {
				var zero T
				return zero, false
			}
			v := cursor.Value()
			cursor = cursor.Next()
			return v, true
		},
		func() int {
			return Distance(cursor, last)
		},
	)
}

func (tree *rbTree[T]) Clone() (RBTree[T], error) {
	dup := &rbTree[T]{
		less:           tree.less,
		alloc:          tree.alloc,
		logger:         tree.logger,
		isDesc:         tree.isDesc,
		isRmBorrowSucc: tree.isRmBorrowSucc,
	}
	var merr error
	tree.Foreach(func(idx int64, color RBColor, val T) bool {
		if _, _, err := dup.Insert(val); err != nil {
			merr = multierr.Append(merr, err)
			return false
		}
		return true
	})
	if merr != nil {
		dup.Release()
		return nil, merr
	}
	return dup, nil
}

// Swap exchanges the contents of two trees created by the same package.
func (tree *rbTree[T]) Swap(other RBTree[T]) {
	o, ok := other.(*rbTree[T])
	if !ok || o == tree {
		return
	}
	tree.root, o.root = o.root, tree.root
	tree.count, o.count = o.count, tree.count
	tree.less, o.less = o.less, tree.less
	tree.alloc, o.alloc = o.alloc, tree.alloc
	tree.logger, o.logger = o.logger, tree.logger
	tree.isDesc, o.isDesc = o.isDesc, tree.isDesc
	tree.isRmBorrowSucc, o.isRmBorrowSucc = o.isRmBorrowSucc, tree.isRmBorrowSucc
}

func (tree *rbTree[T]) Clear() {
	tree.Release()
}

// Release destroys every value by the allocator and unlinks every node.
func (tree *rbTree[T]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		tree.count = 0
		return
	}

	stack := make([]*rbNode[T], 0, tree.count>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		tree.alloc.Destroy(&aux.val)
		stack = stack[:size-1]
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
	tree.count = 0
}

type RBTreeOpt[T any] func(*rbTree[T])

func WithRBTreeDesc[T any]() RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.isDesc = true
	}
}

func WithRBTreeRemoveBorrowSucc[T any]() RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.isRmBorrowSucc = true
	}
}

func WithRBTreeAllocator[T any](a alloc.Allocator[T]) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		if a != nil {
			tree.alloc = a
		}
	}
}

func WithRBTreeLogger[T any](logger xlog.XLogger) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

func newRBTree[T any](less infra.LessFunc[T], opts ...RBTreeOpt[T]) *rbTree[T] {
	if less == nil {
		panic("[rbtree] nil less function")
	}
	tree := &rbTree[T]{
		alloc:  alloc.NewStdAllocator[T](),
		logger: xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		o(tree)
	}
	tree.less = less
	if tree.isDesc {
		tree.less = infra.Reverse(less)
	}
	return tree
}

func NewRBTree[T any](less infra.LessFunc[T], opts ...RBTreeOpt[T]) RBTree[T] {
	return newRBTree[T](less, opts...)
}

func NewOrderedRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	return newRBTree[K](infra.Less[K], opts...)
}
