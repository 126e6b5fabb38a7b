package kv

import (
	"errors"
	"io"

	"github.com/benz9527/xcontainer/lib/tree"
)

var ErrKeyNotFound = errors.New("[kv] key not found")

type Pair[K any, V any] struct {
	Key K
	Val V
}

func MakePair[K any, V any](key K, val V) Pair[K, V] {
	return Pair[K, V]{Key: key, Val: val}
}

// MapIterator is a position in an ordered map. The key part of the pair
// must not be changed through Ref.
type MapIterator[K any, V any] = tree.Iterator[Pair[K, V]]

type SafeStoreKeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

// ThreadSafeStorer serializes the access to an ordered map.
type ThreadSafeStorer[K any, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V) error
	Replace(items ...Pair[K, V]) error
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	Len() int64
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}
