package kv

import (
	"io"
	"reflect"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/tree"
	"github.com/benz9527/xcontainer/lib/xlog"
)

var _ ThreadSafeStorer[int, int] = (*threadSafeMap[int, int])(nil)

type threadSafeMap[K any, V any] struct {
	lock           sync.RWMutex
	items          *OrderedMap[K, V]
	less           infra.LessFunc[K]
	treeOpts       []tree.RBTreeOpt[Pair[K, V]]
	logger         xlog.XLogger
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	val, err := t.items.Index(key)
	if err != nil {
		return err
	}
	*val = obj
	return nil
}

// Replace builds the new content aside, the old content is kept on failure.
func (t *threadSafeMap[K, V]) Replace(items ...Pair[K, V]) error {
	m := NewOrderedMap[K, V](t.less, t.treeOpts...)
	for _, p := range items {
		it, ok, err := m.InsertPair(p)
		if err != nil {
			m.Clear()
			return err
		}
		if !ok {
			it.Ref().Val = p.Val
		}
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	t.items = m
	return nil
}

func (t *threadSafeMap[K, V]) Delete(key K) (V, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	it := t.items.Find(key)
	if it.IsEnd() {
		var zero V
		return zero, infra.WrapErrorStack(ErrKeyNotFound)
	}
	val := it.Value().Val
	t.items.Erase(it)
	return val, nil
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Get(key)
}

func (t *threadSafeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

// ListKeys returns the keys in order.
func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := lo.Filter(filters, func(filter SafeStoreKeyFilterFunc[K], _ int) bool {
		return filter != nil
	})
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	return lo.Filter(t.items.Keys(), func(key K, _ int) bool {
		return lo.SomeBy(realFilters, func(filter SafeStoreKeyFilterFunc[K]) bool {
			return filter(key)
		})
	})
}

// ListValues returns the values in key order. Absent keys are skipped.
func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		return t.items.Values()
	}
	set := NewOrderedSet[K](t.items.KeyLess())
	for _, key := range keys {
		if _, _, err := set.Insert(key); err != nil {
			return nil
		}
	}
	values := make([]V, 0, set.Len())
	for key := range set.All() {
		if val, ok := t.items.Get(key); ok {
			values = append(values, val)
		}
	}
	return values
}

// Purge closes every io.Closer value when the value type is closable and
// drops all the items.
func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		for key, item := range t.items.All() {
			if isNilItem(item) {
				continue
			}
			closer, ok := any(item).(io.Closer)
			if !ok {
				continue
			}
			if err := closer.Close(); err != nil {
				t.logger.Error(err, "[kv] purge close item failed", zap.Any("key", key))
				merr = multierr.Append(merr, err)
			}
		}
	}

	t.items.Clear()
	return merr
}

func isNilItem(item any) bool {
	if item == nil {
		return true
	}
	switch rv := reflect.ValueOf(item); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
	}
	return false
}

type ThreadSafeMapOption[K any, V any] func(*threadSafeMap[K, V])

func WithThreadSafeMapCloseableItemCheck[K any, V any]() ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.isClosableItem = reflect.TypeFor[V]().Implements(reflect.TypeFor[io.Closer]())
	}
}

func WithThreadSafeMapLogger[K any, V any](logger xlog.XLogger) ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		if logger != nil {
			t.logger = logger.Named("kv")
		}
	}
}

func WithThreadSafeMapTreeOptions[K any, V any](opts ...tree.RBTreeOpt[Pair[K, V]]) ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.treeOpts = append(t.treeOpts, opts...)
	}
}

func NewThreadSafeMap[K any, V any](less infra.LessFunc[K], opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	t := &threadSafeMap[K, V]{
		less:   less,
		logger: xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		o(t)
	}
	t.items = NewOrderedMap[K, V](less, t.treeOpts...)
	return t
}

func NewThreadSafeOrderedKeyMap[K infra.OrderedKey, V any](opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	return NewThreadSafeMap[K, V](infra.Less[K], opts...)
}
