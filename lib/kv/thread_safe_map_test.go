package kv

import (
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func genStrKeys(strLen, count int) []string {
	keys := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	for len(keys) < count {
		var sb strings.Builder
		for i := 0; i < strLen; i++ {
			sb.WriteByte(letters[randv2.IntN(len(letters))])
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func TestThreadSafeMap_SimpleCRUD(t *testing.T) {
	keys := genStrKeys(8, 10000)
	vals := make([]int, 0, len(keys))
	pairs := make([]Pair[string, int], 0, len(keys))
	_m := NewThreadSafeOrderedKeyMap[string, int]()
	for i, key := range keys {
		pairs = append(pairs, MakePair(key, i))
		vals = append(vals, i)
	}
	require.NoError(t, _m.Replace(pairs...))
	require.Equal(t, int64(len(keys)), _m.Len())

	_keys := _m.ListKeys()
	require.Equal(t, len(keys), len(_keys))
	require.ElementsMatch(t, keys, _keys)
	require.IsIncreasing(t, _keys)

	_vals := _m.ListValues()
	require.ElementsMatch(t, vals, _vals)

	i := 1001
	res, exists := _m.Get(keys[i])
	require.True(t, exists)
	require.Equal(t, i, res)

	res, err := _m.Delete(keys[i])
	require.NoError(t, err)
	require.Equal(t, i, res)
	_, err = _m.Delete(keys[i])
	require.ErrorIs(t, err, ErrKeyNotFound)

	err = _m.AddOrUpdate(keys[i], i)
	require.NoError(t, err)

	_keys = _m.ListKeys()
	require.Equal(t, len(keys), len(_keys))
	require.ElementsMatch(t, keys, _keys)

	_vals = _m.ListValues()
	require.ElementsMatch(t, vals, _vals)

	require.ElementsMatch(t, []int{1, 0}, _m.ListValues(keys[1], keys[0], "absent-key"))

	err = _m.Purge()
	require.NoError(t, err)
	require.Equal(t, int64(0), _m.Len())
}

func TestThreadSafeMap_ListKeysFilter(t *testing.T) {
	m := NewThreadSafeOrderedKeyMap[int, string]()
	for _, i := range lo.Range(20) {
		require.NoError(t, m.AddOrUpdate(i, strconv.Itoa(i)))
	}
	even := m.ListKeys(func(key int) bool {
		return key%2 == 0
	}, nil)
	require.Equal(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, even)

	require.NoError(t, m.AddOrUpdate(3, "three"))
	v, ok := m.Get(3)
	require.True(t, ok)
	require.Equal(t, "three", v)
}

type closableItem struct {
	closed *atomic.Int32
	err    error
}

func (c *closableItem) Close() error {
	c.closed.Add(1)
	return c.err
}

func TestThreadSafeMap_PurgeClosable(t *testing.T) {
	closed := &atomic.Int32{}
	errClose := errors.New("close failed")
	m := NewThreadSafeOrderedKeyMap[int, *closableItem](
		WithThreadSafeMapCloseableItemCheck[int, *closableItem](),
	)
	require.NoError(t, m.AddOrUpdate(1, &closableItem{closed: closed}))
	require.NoError(t, m.AddOrUpdate(2, &closableItem{closed: closed, err: errClose}))
	require.NoError(t, m.AddOrUpdate(3, nil))

	err := m.Purge()
	require.ErrorIs(t, err, errClose)
	require.Equal(t, int32(2), closed.Load())
	require.Equal(t, int64(0), m.Len())
}

func TestThreadSafeMap_ConcurrentAddOrUpdate(t *testing.T) {
	m := NewThreadSafeOrderedKeyMap[int, int]()
	wg := sync.WaitGroup{}
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := g; i < 4000; i += 4 {
				_ = m.AddOrUpdate(i, i)
				_, _ = m.Get(i - 1)
			}
		}(g)
	}
	wg.Wait()
	require.Equal(t, int64(4000), m.Len())
	require.Equal(t, lo.Range(4000), m.ListKeys())
}

func BenchmarkThreadSafeMapReadWrite(b *testing.B) {
	value := []byte(`abc`)
	for i := 0; i <= 10; i++ {
		b.Run(fmt.Sprintf("ThreadSafeMap frac_%d", i), func(bb *testing.B) {
			readFrac := float32(i) / 10.0
			tsm := NewThreadSafeOrderedKeyMap[int, []byte]()
			bb.ResetTimer()
			count := atomic.Int32{}
			bb.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if randv2.Float32() < readFrac {
						v, exists := tsm.Get(randv2.Int())
						if exists && v != nil {
							count.Add(1)
						}
					} else {
						_ = tsm.AddOrUpdate(randv2.Int(), value)
					}
				}
			})
		})
		b.Run(fmt.Sprintf("SyncMap frac_%d", i), func(bb *testing.B) {
			readFrac := float32(i) / 10.0
			tsm := sync.Map{}
			bb.ResetTimer()
			count := atomic.Int32{}
			bb.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if randv2.Float32() < readFrac {
						v, exists := tsm.Load(randv2.Int())
						if exists && v != nil {
							count.Add(1)
						}
					} else {
						tsm.Store(randv2.Int(), value)
					}
				}
			})
		})
	}
}

func TestThreadSafeMap_ListKeysAnyFilter(t *testing.T) {
	m := NewThreadSafeOrderedKeyMap[int, int]()
	for _, i := range lo.Range(10) {
		require.NoError(t, m.AddOrUpdate(i, i))
	}
	keys := m.ListKeys(func(key int) bool {
		return key < 2
	}, func(key int) bool {
		return key > 7
	})
	require.Equal(t, []int{0, 1, 8, 9}, keys)
	require.Empty(t, m.ListKeys(func(key int) bool { return false }))
}
