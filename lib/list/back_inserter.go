package list

// BackInserter adapts a linked list to the back insertion contract of a
// stack. A linked list never fails to push.
type BackInserter[T any] struct {
	l LinkedList[T]
}

func NewBackInserter[T any](l LinkedList[T]) *BackInserter[T] {
	if l == nil {
		l = NewLinkedList[T]()
	}
	return &BackInserter[T]{l: l}
}

func (b *BackInserter[T]) PushBack(v T) error {
	b.l.PushBack(v)
	return nil
}

func (b *BackInserter[T]) PopBack() {
	b.l.PopBack()
}

// Back panics on an empty list.
func (b *BackInserter[T]) Back() T {
	e := b.l.Back()
	if e == nil {
		panic("[doubly-linked-list] back of an empty list")
	}
	return e.Value
}

func (b *BackInserter[T]) Len() int {
	return int(b.l.Len())
}

func (b *BackInserter[T]) List() LinkedList[T] {
	return b.l
}
