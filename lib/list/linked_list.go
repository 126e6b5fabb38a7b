package list

import (
	"github.com/benz9527/xcontainer/lib/infra"
)

var _ LinkedList[struct{}] = (*doublyLinkedList[struct{}])(nil) // Type check assertion

// The root is a sentinel, root.next is the head and root.prev is the tail.
// An empty list links the root to itself.
type doublyLinkedList[T any] struct {
	root *NodeElement[T]
	len  int64
}

func NewLinkedList[T any]() LinkedList[T] {
	return new(doublyLinkedList[T]).init()
}

func (l *doublyLinkedList[T]) getRoot() *NodeElement[T] {
	return l.root
}

func (l *doublyLinkedList[T]) init() *doublyLinkedList[T] {
	l.root = &NodeElement[T]{
		listRef: l,
	}
	l.root.next = l.root
	l.root.prev = l.root
	l.len = 0
	return l
}

func (l *doublyLinkedList[T]) Len() int64 {
	return l.len
}

// mem address compare
func (l *doublyLinkedList[T]) contains(targetE *NodeElement[T]) bool {
	return targetE != nil && targetE != l.root && targetE.listRef == l &&
		targetE.prev != nil && targetE.next != nil
}

func (l *doublyLinkedList[T]) insertAfter(newE, at *NodeElement[T]) *NodeElement[T] {
	newE.prev = at
	newE.next = at.next
	at.next.prev = newE
	at.next = newE
	l.len++
	return newE
}

func (l *doublyLinkedList[T]) AppendValue(values ...T) []*NodeElement[T] {
	if len(values) <= 0 {
		return nil
	}

	newElements := make([]*NodeElement[T], 0, len(values))
	for _, v := range values {
		newElements = append(newElements, l.insertAfter(newNodeElement(v, l), l.root.prev))
	}
	return newElements
}

func (l *doublyLinkedList[T]) InsertAfter(v T, dstE *NodeElement[T]) *NodeElement[T] {
	if !l.contains(dstE) {
		return nil
	}
	return l.insertAfter(newNodeElement(v, l), dstE)
}

func (l *doublyLinkedList[T]) InsertBefore(v T, dstE *NodeElement[T]) *NodeElement[T] {
	if !l.contains(dstE) {
		return nil
	}
	return l.insertAfter(newNodeElement(v, l), dstE.prev)
}

func (l *doublyLinkedList[T]) Remove(targetE *NodeElement[T]) *NodeElement[T] {
	if l == nil || l.root == nil || l.len == 0 || !l.contains(targetE) {
		return nil
	}

	targetE.prev.next = targetE.next
	targetE.next.prev = targetE.prev

	// avoid memory leaks
	targetE.listRef = nil
	targetE.next = nil
	targetE.prev = nil

	l.len--
	return targetE
}

// Foreach, allows remove linked list elements while iterating.
func (l *doublyLinkedList[T]) Foreach(fn func(idx int64, e *NodeElement[T]) error) error {
	if l == nil || l.root == nil || fn == nil || l.len == 0 {
		return infra.NewErrorStack("[doubly-linked-list] empty")
	}

	var (
		iterator       = l.root.next
		idx      int64 = 0
	)
	// Avoid remove in an iteration, result in memory leak
	for iterator != l.root {
		n := iterator.next
		if err := fn(idx, iterator); err != nil {
			return err
		}
		iterator = n
		idx++
	}
	return nil
}

// ReverseForeach, allows remove linked list elements while iterating.
func (l *doublyLinkedList[T]) ReverseForeach(fn func(idx int64, e *NodeElement[T])) {
	if l == nil || l.root == nil || fn == nil || l.len == 0 {
		return
	}

	var (
		iterator       = l.root.prev
		idx      int64 = 0
	)
	for iterator != l.root {
		p := iterator.prev
		fn(idx, iterator)
		iterator = p
		idx++
	}
}

func (l *doublyLinkedList[T]) Front() *NodeElement[T] {
	if l == nil || l.root == nil || l.len == 0 {
		return nil
	}
	return l.root.next
}

func (l *doublyLinkedList[T]) Back() *NodeElement[T] {
	if l == nil || l.root == nil || l.len == 0 {
		return nil
	}
	return l.root.prev
}

func (l *doublyLinkedList[T]) PushFront(v T) *NodeElement[T] {
	if l == nil || l.root == nil {
		return nil
	}
	return l.insertAfter(newNodeElement(v, l), l.root)
}

func (l *doublyLinkedList[T]) PushBack(v T) *NodeElement[T] {
	if l == nil || l.root == nil {
		return nil
	}
	return l.insertAfter(newNodeElement(v, l), l.root.prev)
}

func (l *doublyLinkedList[T]) PopFront() *NodeElement[T] {
	return l.Remove(l.Front())
}

func (l *doublyLinkedList[T]) PopBack() *NodeElement[T] {
	return l.Remove(l.Back())
}

// Clear unlinks every element, the elements hold by the caller are detached.
func (l *doublyLinkedList[T]) Clear() {
	if l == nil || l.root == nil {
		return
	}
	for iterator := l.root.next; iterator != l.root; {
		n := iterator.next
		iterator.listRef, iterator.prev, iterator.next = nil, nil, nil
		iterator = n
	}
	l.init()
}
