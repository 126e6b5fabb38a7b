package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	randv2 "math/rand/v2"
	"slices"
	"sort"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xcontainer/lib/alloc"
	"github.com/benz9527/xcontainer/lib/iterator"
	"github.com/benz9527/xcontainer/lib/xlog"
)

type checkData struct {
	color RBColor
	val   uint64
}

func requireTreeColors(t *testing.T, tree RBTree[uint64], expected []checkData) {
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].val, val)
		return true
	})
	require.NoError(t, Validate(tree))
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)

	tree := NewOrderedRBTree[uint64]()
	require.Nil(t, tree.Root())
	require.True(t, tree.Begin().IsEnd())
	require.True(t, tree.Begin().Equal(tree.End()))
}

func TestRbtreeLeftAndRightRotate_Pred(t *testing.T) {
	tree := NewOrderedRBTree[uint64]()

	tree.Insert(52)
	requireTreeColors(t, tree, []checkData{
		{Black, 52},
	})

	tree.Insert(47)
	requireTreeColors(t, tree, []checkData{
		{Red, 47}, {Black, 52},
	})

	tree.Insert(3)
	requireTreeColors(t, tree, []checkData{
		{Red, 3}, {Black, 47}, {Red, 52},
	})

	tree.Insert(35)
	requireTreeColors(t, tree, []checkData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	tree.Insert(24)
	requireTreeColors(t, tree, []checkData{
		{Red, 3},
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	// remove

	require.Equal(t, int64(1), tree.EraseValue(24))
	requireTreeColors(t, tree, []checkData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	require.Equal(t, int64(1), tree.EraseValue(47))
	requireTreeColors(t, tree, []checkData{
		{Black, 3},
		{Black, 35},
		{Black, 52},
	})

	require.Equal(t, int64(1), tree.EraseValue(52))
	requireTreeColors(t, tree, []checkData{
		{Red, 3}, {Black, 35},
	})

	require.Equal(t, int64(1), tree.EraseValue(3))
	requireTreeColors(t, tree, []checkData{
		{Black, 35},
	})

	require.Equal(t, int64(0), tree.EraseValue(3))
	require.Equal(t, int64(1), tree.EraseValue(35))
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRbtree_RemoveMin(t *testing.T) {
	tree := NewOrderedRBTree[uint64]()

	for _, v := range []uint64{52, 47, 3, 35, 24} {
		_, ok, err := tree.Insert(v)
		require.NoError(t, err)
		require.True(t, ok)
	}
	requireTreeColors(t, tree, []checkData{
		{Red, 3},
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	// remove min

	x, ok := tree.RemoveMin()
	require.True(t, ok)
	require.Equal(t, uint64(3), x)
	requireTreeColors(t, tree, []checkData{
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	x, ok = tree.RemoveMin()
	require.True(t, ok)
	require.Equal(t, uint64(24), x)
	requireTreeColors(t, tree, []checkData{
		{Black, 35},
		{Black, 47},
		{Black, 52},
	})

	x, ok = tree.RemoveMin()
	require.True(t, ok)
	require.Equal(t, uint64(35), x)
	requireTreeColors(t, tree, []checkData{
		{Black, 47}, {Red, 52},
	})

	x, ok = tree.RemoveMin()
	require.True(t, ok)
	require.Equal(t, uint64(47), x)
	requireTreeColors(t, tree, []checkData{
		{Black, 52},
	})

	x, ok = tree.RemoveMax()
	require.True(t, ok)
	require.Equal(t, uint64(52), x)
	require.Equal(t, int64(0), tree.Len())

	_, ok = tree.RemoveMin()
	require.False(t, ok)
	_, ok = tree.RemoveMax()
	require.False(t, ok)
}

func TestRbtree_InsertAndEraseScenario(t *testing.T) {
	tree := NewOrderedRBTree[int]()
	for _, v := range []int{50, 30, 65, 55, 35, 70, 15, 68, 80, 90, 69, 120, 56} {
		_, ok, err := tree.Insert(v)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, Validate(tree))
	}
	require.Equal(t, int64(13), tree.Len())
	require.Equal(t,
		[]int{15, 30, 35, 50, 55, 56, 65, 68, 69, 70, 80, 90, 120},
		slices.Collect(tree.All()),
	)
	require.Equal(t,
		[]int{120, 90, 80, 70, 69, 68, 65, 56, 55, 50, 35, 30, 15},
		slices.Collect(tree.Backward()),
	)

	it, ok, err := tree.Insert(55)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 55, it.Value())
	require.Equal(t, int64(13), tree.Len())

	for i, v := range []int{55, 30, 80, 50, 35, 15, 70, 65} {
		it := tree.Find(v)
		require.False(t, it.IsEnd())
		tree.Erase(it)
		require.Equal(t, int64(13-i-1), tree.Len())
		require.False(t, tree.Contains(v))
		require.NoError(t, Validate(tree))
	}
	require.Equal(t, []int{56, 68, 69, 90, 120}, slices.Collect(tree.All()))
}

func TestRbtree_Bounds(t *testing.T) {
	tree := NewOrderedRBTree[int]()
	require.NoError(t, tree.InsertRange(iterator.FromValues(10, 20, 30, 40)))

	require.Equal(t, 20, tree.LowerBound(20).Value())
	require.Equal(t, 30, tree.UpperBound(20).Value())
	require.Equal(t, 20, tree.LowerBound(15).Value())
	require.Equal(t, 20, tree.UpperBound(15).Value())
	require.Equal(t, 10, tree.LowerBound(-1).Value())
	require.True(t, tree.LowerBound(41).IsEnd())
	require.True(t, tree.UpperBound(40).IsEnd())

	first, last := tree.EqualRange(30)
	require.Equal(t, 1, Distance(first, last))
	first, last = tree.EqualRange(35)
	require.True(t, first.Equal(last))
	require.Equal(t, 40, first.Value())

	require.True(t, tree.Find(25).IsEnd())
	_min, ok := tree.Min()
	require.True(t, ok)
	require.Equal(t, 10, _min)
	_max, ok := tree.Max()
	require.True(t, ok)
	require.Equal(t, 40, _max)
}

func TestRbtree_IteratorWalk(t *testing.T) {
	tree := NewOrderedRBTree[int]()
	require.NoError(t, tree.InsertRange(iterator.FromValues(3, 1, 2)))

	it := tree.Begin()
	require.Equal(t, 1, it.Value())
	it = it.Next().Next()
	require.Equal(t, 3, it.Value())
	it = it.Next()
	require.True(t, it.IsEnd())
	require.True(t, it.Next().IsEnd())

	// Prev of the end position is the maximum.
	require.Equal(t, 3, tree.End().Prev().Value())
	require.Equal(t, 2, tree.End().Prev().Prev().Value())

	rit := tree.RBegin()
	values := make([]int, 0, 3)
	for ; !rit.Equal(tree.REnd()); rit = rit.Next() {
		values = append(values, rit.Value())
	}
	require.Equal(t, []int{3, 2, 1}, values)
	require.Equal(t, 1, tree.REnd().Prev().Value())

	require.Panics(t, func() {
		tree.End().Value()
	})
	require.Nil(t, tree.End().Ref())
	require.Equal(t, 3, Distance(tree.Begin(), tree.End()))
	require.Equal(t, -1, Distance(tree.Find(3), tree.Find(1)))
}

func TestRbtree_IteratorStableAfterErase(t *testing.T) {
	type testcase struct {
		name       string
		rbRmBySucc bool
	}
	testcases := []testcase{
		{
			name: "rm by pred",
		},
		{
			name:       "rm by succ",
			rbRmBySucc: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			opts := []RBTreeOpt[int]{}
			if tc.rbRmBySucc {
				opts = append(opts, WithRBTreeRemoveBorrowSucc[int]())
			}
			tree := NewOrderedRBTree[int](opts...)
			iters := make(map[int]Iterator[int], 200)
			for _, v := range lo.Range(200) {
				it, ok, err := tree.Insert(v)
				require.NoError(tt, err)
				require.True(tt, ok)
				iters[v] = it
			}

			for v := 0; v < 200; v += 3 {
				next := tree.Erase(iters[v])
				delete(iters, v)
				if v+1 < 200 {
					require.Equal(tt, v+1, next.Value())
				}
				require.NoError(tt, Validate(tree))
			}
			for v, it := range iters {
				require.Equal(tt, v, it.Value())
			}
		})
	}
}

func TestRbtree_EraseRange(t *testing.T) {
	tree := NewOrderedRBTree[int]()
	require.NoError(t, tree.InsertRange(iterator.FromSlice(lo.Range(20))))

	last := tree.EraseRange(tree.LowerBound(5), tree.LowerBound(15))
	require.Equal(t, 15, last.Value())
	require.Equal(t, int64(10), tree.Len())
	require.NoError(t, Validate(tree))

	r := tree.Range(tree.Begin(), tree.Find(15))
	require.Equal(t, iterator.Bidirectional, r.Category())
	require.Equal(t, 5, r.Len())
	require.Equal(t, []int{0, 1, 2, 3, 4}, iterator.Collect(r))

	tree.EraseRange(tree.Begin(), tree.End())
	require.True(t, tree.Empty())
}

func TestRbtree_Desc(t *testing.T) {
	tree := NewOrderedRBTree[int](WithRBTreeDesc[int]())
	require.NoError(t, tree.InsertRange(iterator.FromValues(1, 5, 3)))
	require.Equal(t, []int{5, 3, 1}, slices.Collect(tree.All()))
	require.Equal(t, 3, tree.LowerBound(4).Value())
	require.NoError(t, Validate(tree))

	dup, err := tree.Clone()
	require.NoError(t, err)
	require.Equal(t, []int{5, 3, 1}, slices.Collect(dup.All()))
}

func TestRbtree_ConstructFailure(t *testing.T) {
	errBoom := errors.New("boom")
	destroyed := 0
	a := alloc.NewStdAllocator[int](
		alloc.WithConstructor[int](func(dst *int, src int) error {
			if src == 42 {
				return errBoom
			}
			*dst = src
			return nil
		}),
		alloc.WithDestructor[int](func(slot *int) {
			destroyed++
		}),
	)
	tree := NewOrderedRBTree[int](WithRBTreeAllocator[int](a))
	require.NoError(t, tree.InsertRange(iterator.FromSlice(lo.Range(10))))

	it, ok, err := tree.Insert(42)
	require.ErrorIs(t, err, errBoom)
	require.False(t, ok)
	require.True(t, it.IsEnd())
	require.Equal(t, int64(10), tree.Len())
	require.False(t, tree.Contains(42))
	require.NoError(t, Validate(tree))

	require.ErrorIs(t, tree.InsertRange(iterator.FromValues(100, 42, 101)), errBoom)
	require.Equal(t, int64(11), tree.Len())

	tree.EraseValue(100)
	require.Equal(t, 1, destroyed)
	tree.Release()
	require.Equal(t, 11, destroyed)
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRbtree_CloneFailure(t *testing.T) {
	fail := false
	a := alloc.NewStdAllocator[int](
		alloc.WithConstructor[int](func(dst *int, src int) error {
			if fail && src == 7 {
				return errors.New("copy 7")
			}
			*dst = src
			return nil
		}),
	)
	tree := NewOrderedRBTree[int](WithRBTreeAllocator[int](a))
	require.NoError(t, tree.InsertRange(iterator.FromSlice(lo.Range(10))))

	dup, err := tree.Clone()
	require.NoError(t, err)
	require.Equal(t, slices.Collect(tree.All()), slices.Collect(dup.All()))
	dup.EraseValue(3)
	require.True(t, tree.Contains(3))

	fail = true
	dup, err = tree.Clone()
	require.Error(t, err)
	require.Nil(t, dup)
	require.Equal(t, int64(10), tree.Len())
}

func TestRbtree_Swap(t *testing.T) {
	t1 := NewOrderedRBTree[int]()
	t2 := NewOrderedRBTree[int]()
	require.NoError(t, t1.InsertRange(iterator.FromValues(1, 2, 3)))
	require.NoError(t, t2.InsertRange(iterator.FromValues(9)))
	it := t1.Find(2)

	t1.Swap(t2)
	require.Equal(t, []int{9}, slices.Collect(t1.All()))
	require.Equal(t, []int{1, 2, 3}, slices.Collect(t2.All()))
	require.Equal(t, 2, it.Value())

	t1.Clear()
	require.True(t, t1.Empty())
}

func TestRbtree_CustomLess(t *testing.T) {
	type user struct {
		name string
		age  int
	}
	tree := NewRBTree[user](func(a, b user) bool {
		return a.age < b.age
	})
	tree.Insert(user{"a", 30})
	tree.Insert(user{"b", 20})
	_, ok, _ := tree.Insert(user{"c", 30})
	require.False(t, ok)
	require.Equal(t, "a", tree.Find(user{age: 30}).Value().name)

	tree.Find(user{age: 20}).Ref().name = "bb"
	require.Equal(t, "bb", tree.Begin().Value().name)

	require.Panics(t, func() {
		NewRBTree[int](nil)
	})
}

func rbtreeRandomInsertAndRemoveSequentialNumberRunCore(t *testing.T, rbRmBySucc bool) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	opts := []RBTreeOpt[uint64]{}
	if rbRmBySucc {
		opts = append(opts, WithRBTreeRemoveBorrowSucc[uint64]())
	}
	tree := NewOrderedRBTree[uint64](opts...)

	for i := uint64(0); i < insertTotal; i++ {
		tree.Insert(i)
		require.NoError(t, RedViolationValidate(tree))
		require.NoError(t, BlackViolationValidate(tree))
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		tree.Insert(i)
		require.NoError(t, RedViolationValidate(tree))
		require.NoError(t, BlackViolationValidate(tree))
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		if i == 92 {
			require.Equal(t, uint64(92), tree.Find(i).Value())
		}
		require.Equal(t, int64(1), tree.EraseValue(i))
		require.NoError(t, RedViolationValidate(tree))
		require.NoError(t, BlackViolationValidate(tree))
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})
}

func TestRbtreeRandomInsertAndRemove_SequentialNumber(t *testing.T) {
	type testcase struct {
		name       string
		rbRmBySucc bool
	}
	testcases := []testcase{
		{
			name: "rm by pred",
		},
		{
			name:       "rm by succ",
			rbRmBySucc: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemoveSequentialNumberRunCore(tt, tc.rbRmBySucc)
		})
	}
}

func TestRBTreeRandomInsertAndRemove_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)

	tree := NewOrderedRBTree[uint64]()

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		tree.Insert(i)
		if i%1000 == rand {
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRbtreeRandomInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)
	removeTotal := int64(float64(total) * 0.2)

	tree := NewOrderedRBTree[int64](WithRBTreeDesc[int64]())

	rand := int64(randv2.Uint32() % 1_000)
	for i := insertTotal - 1; i >= 0; i-- {
		tree.Insert(i)
		if i%1000 == rand {
			require.NoError(t, Validate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, insertTotal-1-idx, val)
		return true
	})

	for i := removeTotal + insertTotal - 1; i >= insertTotal; i-- {
		tree.Insert(i)
	}
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, removeTotal+insertTotal-1-idx, val)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		require.Equal(t, int64(1), tree.EraseValue(i))
	}
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, insertTotal-1-idx, val)
		return true
	})
	require.NoError(t, Validate(tree))
}

func rbtreeRandomInsertAndRemove_RandomNumberRunCore(t *testing.T, total uint64, rbRmBySucc bool, violationCheck bool) {
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	seen := make(map[uint64]struct{}, total)
	insertElements := make([]uint64, 0, insertTotal)
	removeElements := make([]uint64, 0, removeTotal)
	for uint64(len(insertElements)) < insertTotal || uint64(len(removeElements)) < removeTotal {
		num := randv2.Uint64()
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		if num&0x1 == 0 && uint64(len(insertElements)) < insertTotal {
			insertElements = append(insertElements, num)
		} else if num&0x1 == 1 && uint64(len(removeElements)) < removeTotal {
			removeElements = append(removeElements, num)
		}
	}

	opts := []RBTreeOpt[uint64]{}
	if rbRmBySucc {
		opts = append(opts, WithRBTreeRemoveBorrowSucc[uint64]())
	}
	tree := NewOrderedRBTree[uint64](opts...)

	for i := uint64(0); i < insertTotal; i++ {
		tree.Insert(insertElements[i])
		if violationCheck {
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
		}
	}
	sort.Slice(insertElements, func(i, j int) bool {
		return insertElements[i] < insertElements[j]
	})
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, insertElements[idx], val)
		return true
	})

	for i := uint64(0); i < removeTotal; i++ {
		tree.Insert(removeElements[i])
		if violationCheck {
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
		}
	}
	require.NoError(t, Validate(tree))

	for i := uint64(0); i < removeTotal; i++ {
		require.Equalf(t, int64(1), tree.EraseValue(removeElements[i]), "value exp: %d\n", removeElements[i])
		if violationCheck {
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, insertElements[idx], val)
		return true
	})
}

func TestRbtreeRandomInsertAndRemove_RandomNumber(t *testing.T) {
	type testcase struct {
		name           string
		rbRmBySucc     bool
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "rm by pred 100000",
			total: 100000,
		},
		{
			name:       "rm by succ 100000",
			rbRmBySucc: true,
			total:      100000,
		},
		{
			name:           "violation check rm by pred 5000",
			total:          5000,
			violationCheck: true,
		},
		{
			name:           "violation check rm by succ 5000",
			rbRmBySucc:     true,
			total:          5000,
			violationCheck: true,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemove_RandomNumberRunCore(tt, tc.total, tc.rbRmBySucc, tc.violationCheck)
		})
	}
}

func BenchmarkRBTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewOrderedRBTree[int]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := tree.Insert(rngArr[i]); err != nil {
			panic(err)
		}
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	b.StopTimer()
	tree := NewOrderedRBTree[int]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i)
	}
}

type memLogWriter struct {
	bytes.Buffer
}

func (w *memLogWriter) Sync() error { return nil }

func (w *memLogWriter) cases(t *testing.T) []string {
	res := make([]string, 0, 8)
	dec := json.NewDecoder(&w.Buffer)
	for dec.More() {
		entry := map[string]any{}
		require.NoError(t, dec.Decode(&entry))
		require.Equal(t, "rbtree", entry["component"])
		if c, ok := entry["case"].(string); ok {
			res = append(res, c)
		}
	}
	return res
}

func TestRbtree_RebalanceTrace(t *testing.T) {
	w := &memLogWriter{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerOutput(w),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
	tree := NewOrderedRBTree[int](WithRBTreeLogger[int](logger))

	// 5 is left to 10 then 7 is right to 5: rotate 5 and then 10.
	for _, v := range []int{10, 5, 7} {
		_, _, err := tree.Insert(v)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"im4", "im5"}, w.cases(t))

	// Both 5 and 10 are red.
	_, _, err := tree.Insert(3)
	require.NoError(t, err)
	require.Equal(t, []string{"im3"}, w.cases(t))
	require.NoError(t, Validate(tree))

	// The black leaf 10 with the red far nephew 3.
	require.Equal(t, int64(1), tree.EraseValue(10))
	require.Equal(t, []string{"rm5"}, w.cases(t))
	require.NoError(t, Validate(tree))

	w.Reset()
	logger.IncreaseLogLevel(zapcore.InfoLevel)
	for i := 100; i < 200; i++ {
		_, _, err = tree.Insert(i)
		require.NoError(t, err)
	}
	require.Empty(t, w.cases(t))
}
