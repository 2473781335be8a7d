package freelist_test

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/ewramkit/arena/memutils"
	"github.com/ewramkit/arena/memutils/freelist"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type region struct {
	Offset int
	Size   int
	Free   bool
}

func newArena(t *testing.T, size int) (*freelist.FreeListBlockMetadata, []byte) {
	t.Helper()

	memory := make([]byte, size)
	arena := freelist.NewFreeListBlockMetadata(nil, memory)
	arena.Init(size)
	require.NoError(t, arena.Validate())

	return arena, memory
}

func regions(t *testing.T, arena *freelist.FreeListBlockMetadata) []region {
	t.Helper()

	var out []region
	err := arena.VisitAllRegions(func(handle freelist.Pointer, offset int, size int, free bool) error {
		out = append(out, region{Offset: offset, Size: size, Free: free})
		return nil
	})
	require.NoError(t, err)

	return out
}

func acquire(t *testing.T, arena *freelist.FreeListBlockMetadata, size int) freelist.Pointer {
	t.Helper()

	ptr, err := arena.Acquire(size, 4)
	require.NoError(t, err)
	require.NotEqual(t, freelist.NoAllocation, ptr)

	return ptr
}

func requireHeapCorruption(t *testing.T, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a heap corruption panic")

		err, isErr := r.(error)
		require.True(t, isErr, "panic value should be an error, was %+v", r)
		require.ErrorIs(t, err, memutils.ErrHeapCorruption)
	}()

	fn()
}

func TestInitialArenaIsOneFreeBlock(t *testing.T) {
	arena, _ := newArena(t, 100)

	require.Equal(t, []region{{Offset: 0, Size: 100, Free: true}}, regions(t, arena))
	require.True(t, arena.IsEmpty())
	require.Equal(t, 100, arena.Size())
	require.Equal(t, 100, arena.SumFreeSize())
	require.Equal(t, 1, arena.FreeRegionsCount())
	require.NoError(t, arena.CheckCorruption())
}

func TestScenario(t *testing.T) {
	arena, _ := newArena(t, 100)

	// 8 byte header + 10 bytes + 2 bytes of padding, leaving 80 bytes behind
	first := acquire(t, arena, 10)
	require.Equal(t, freelist.Pointer(8), first)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: false},
		{Offset: 20, Size: 80, Free: true},
	}, regions(t, arena))

	// 8 + 70 + 2 consumes the remaining block exactly
	second := acquire(t, arena, 70)
	require.Equal(t, freelist.Pointer(28), second)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: false},
		{Offset: 20, Size: 80, Free: false},
	}, regions(t, arena))

	arena.Release(first)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: true},
		{Offset: 20, Size: 80, Free: false},
	}, regions(t, arena))

	require.Equal(t, 1, arena.AllocationCount())
	require.Equal(t, 1, arena.FreeRegionsCount())
	require.Equal(t, 20, arena.SumFreeSize())
	require.NoError(t, arena.Validate())
}

func TestSplitLeavesFreeBlockBehind(t *testing.T) {
	arena, _ := newArena(t, 1000)

	ptr := acquire(t, arena, 100)
	require.Equal(t, freelist.Pointer(8), ptr)
	require.Equal(t, []region{
		{Offset: 0, Size: 108, Free: false},
		{Offset: 108, Size: 892, Free: true},
	}, regions(t, arena))

	size, err := arena.AllocationSize(ptr)
	require.NoError(t, err)
	require.Equal(t, 100, size)
}

func TestSplitAtMinimumBlockSize(t *testing.T) {
	arena, _ := newArena(t, 64)

	// needed = 8 + 40 = 48, leftover is exactly 16
	acquire(t, arena, 40)
	require.Equal(t, []region{
		{Offset: 0, Size: 48, Free: false},
		{Offset: 48, Size: 16, Free: true},
	}, regions(t, arena))
}

func TestNoSliverBelowMinimumBlockSize(t *testing.T) {
	arena, _ := newArena(t, 64)

	// needed = 8 + 44 = 52, leftover of 12 stays with the allocation
	ptr := acquire(t, arena, 44)
	require.Equal(t, []region{
		{Offset: 0, Size: 64, Free: false},
	}, regions(t, arena))

	size, err := arena.AllocationSize(ptr)
	require.NoError(t, err)
	require.Equal(t, 56, size)
	require.Equal(t, 0, arena.FreeRegionsCount())
	require.Equal(t, 0, arena.SumFreeSize())

	// The extra bytes come back when the block is released and can be split differently
	arena.Release(ptr)
	require.Equal(t, []region{{Offset: 0, Size: 64, Free: true}}, regions(t, arena))

	acquire(t, arena, 20)
	require.Equal(t, []region{
		{Offset: 0, Size: 28, Free: false},
		{Offset: 28, Size: 36, Free: true},
	}, regions(t, arena))
}

func TestExactFitReuse(t *testing.T) {
	arena, _ := newArena(t, 200)

	first := acquire(t, arena, 10)
	acquire(t, arena, 10)

	arena.Release(first)

	// 12 bytes needs exactly the 20 bytes reclaimed from the first block
	reused := acquire(t, arena, 12)
	require.Equal(t, first, reused)
	require.NoError(t, arena.Validate())
}

func TestZeroSizeAllocations(t *testing.T) {
	arena, _ := newArena(t, 100)

	first := acquire(t, arena, 0)
	second := acquire(t, arena, 0)
	require.NotEqual(t, first, second)

	require.Equal(t, []region{
		{Offset: 0, Size: 8, Free: false},
		{Offset: 8, Size: 8, Free: false},
		{Offset: 16, Size: 84, Free: true},
	}, regions(t, arena))

	view, err := arena.Bytes(first, 0)
	require.NoError(t, err)
	require.Len(t, view, 0)
}

func TestForwardCoalescing(t *testing.T) {
	arena, _ := newArena(t, 200)

	a := acquire(t, arena, 12)
	b := acquire(t, arena, 12)
	c := acquire(t, arena, 12)

	arena.Release(b)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: false},
		{Offset: 20, Size: 20, Free: true},
		{Offset: 40, Size: 20, Free: false},
		{Offset: 60, Size: 140, Free: true},
	}, regions(t, arena))

	arena.Release(c)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: false},
		{Offset: 20, Size: 20, Free: true},
		{Offset: 40, Size: 160, Free: true},
	}, regions(t, arena))

	// A single release collapses the whole chain of free successors
	arena.Release(a)
	require.Equal(t, []region{{Offset: 0, Size: 200, Free: true}}, regions(t, arena))
	require.Equal(t, 1, arena.FreeRegionsCount())
	require.True(t, arena.IsEmpty())
	require.NoError(t, arena.Validate())
}

func TestNoBackwardCoalescing(t *testing.T) {
	arena, _ := newArena(t, 60)

	a := acquire(t, arena, 12)
	b := acquire(t, arena, 12)
	c := acquire(t, arena, 12)

	// Releasing in ascending order never finds a free successor
	arena.Release(a)
	arena.Release(b)
	arena.Release(c)

	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: true},
		{Offset: 20, Size: 20, Free: true},
		{Offset: 40, Size: 20, Free: true},
	}, regions(t, arena))
	require.Equal(t, 3, arena.FreeRegionsCount())
	require.Equal(t, 60, arena.SumFreeSize())
	require.NoError(t, arena.Validate())

	// 60 bytes are free, but no single block can hold 40 bytes of payload
	ptr, err := arena.Acquire(40, 4)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Equal(t, freelist.NoAllocation, ptr)
}

func TestDescendingReleaseCollapsesRun(t *testing.T) {
	arena, _ := newArena(t, 60)

	a := acquire(t, arena, 12)
	b := acquire(t, arena, 12)
	c := acquire(t, arena, 12)

	arena.Release(c)
	arena.Release(b)
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: false},
		{Offset: 20, Size: 40, Free: true},
	}, regions(t, arena))

	arena.Release(a)
	require.Equal(t, []region{{Offset: 0, Size: 60, Free: true}}, regions(t, arena))
}

func TestFreedPredecessorIsNotMergedBySuccessor(t *testing.T) {
	arena, _ := newArena(t, 100)

	a := acquire(t, arena, 12)
	b := acquire(t, arena, 12)

	arena.Release(a)
	arena.Release(b)

	// b merged forward with the tail, a stayed on its own
	require.Equal(t, []region{
		{Offset: 0, Size: 20, Free: true},
		{Offset: 20, Size: 80, Free: true},
	}, regions(t, arena))
}

func TestExhaustion(t *testing.T) {
	arena, _ := newArena(t, 100)

	ptr := acquire(t, arena, 92)
	require.Equal(t, 0, arena.SumFreeSize())

	failed, err := arena.Acquire(0, 1)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Equal(t, freelist.NoAllocation, failed)

	arena.Release(ptr)
	acquire(t, arena, 0)
}

func TestRequestLargerThanArena(t *testing.T) {
	arena, _ := newArena(t, 100)

	ptr, err := arena.Acquire(math.MaxInt, 4)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Equal(t, freelist.NoAllocation, ptr)

	ptr, err = arena.Acquire(93, 4)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Equal(t, freelist.NoAllocation, ptr)
	require.True(t, arena.IsEmpty())
}

func TestInvalidRequests(t *testing.T) {
	arena, _ := newArena(t, 100)

	_, err := arena.Acquire(-1, 4)
	require.ErrorIs(t, err, memutils.ErrInvalidSize)

	_, err = arena.Acquire(10, 8)
	require.ErrorIs(t, err, memutils.ErrUnsupportedAlignment)

	_, err = arena.Acquire(10, 3)
	require.ErrorIs(t, err, memutils.PowerOfTwoError)

	for _, alignment := range []uint{0, 1, 2, 4} {
		ptr, err := arena.Acquire(1, alignment)
		require.NoError(t, err)
		require.Zero(t, int(ptr)%int(memutils.WordSize))
	}
}

func TestZeroSizeHeaderIsCorruption(t *testing.T) {
	arena, memory := newArena(t, 100)

	acquire(t, arena, 10)

	// Wipe the size of the free block at offset 20
	copy(memory[20:24], []byte{0, 0, 0, 0})

	requireHeapCorruption(t, func() {
		_, _ = arena.Acquire(10, 4)
	})
	require.Error(t, arena.Validate())
}

func TestZeroSizeSuccessorIsCorruption(t *testing.T) {
	arena, memory := newArena(t, 100)

	ptr := acquire(t, arena, 10)
	copy(memory[20:24], []byte{0, 0, 0, 0})

	requireHeapCorruption(t, func() {
		arena.Release(ptr)
	})
}

func TestOversizedHeaderIsCorruption(t *testing.T) {
	arena, memory := newArena(t, 100)

	acquire(t, arena, 10)
	// Free block at offset 20 claims 200 bytes
	memory[20] = 200

	requireHeapCorruption(t, func() {
		_, _ = arena.Acquire(90, 4)
	})
}

func TestMarkerIsDiagnosticOnly(t *testing.T) {
	arena, memory := newArena(t, 100)

	ptr := acquire(t, arena, 10)

	// Scribble over the marker of the used block
	memory[4] = 0x00
	memory[5] = 0x00

	err := arena.CheckCorruption()
	require.ErrorIs(t, err, memutils.ErrHeapCorruption)
	require.NoError(t, arena.Validate())

	// Allocation outcomes are unaffected by the damaged marker
	arena.Release(ptr)
	require.Equal(t, []region{{Offset: 0, Size: 100, Free: true}}, regions(t, arena))
	require.Equal(t, ptr, acquire(t, arena, 10))
}

func TestBytes(t *testing.T) {
	arena, memory := newArena(t, 100)

	ptr := acquire(t, arena, 10)

	view, err := arena.Bytes(ptr, 12)
	require.NoError(t, err)
	require.Len(t, view, 12)
	require.Equal(t, 12, cap(view))

	copy(view, "hello world!")
	require.Equal(t, "hello world!", string(memory[8:20]))

	_, err = arena.Bytes(ptr, 13)
	require.Error(t, err)

	_, err = arena.Bytes(ptr, -1)
	require.Error(t, err)

	arena.Release(ptr)
	_, err = arena.Bytes(ptr, 1)
	require.Error(t, err)

	_, err = arena.AllocationSize(freelist.Pointer(1000))
	require.Error(t, err)
}

func TestReleaseOutsideArenaPanics(t *testing.T) {
	arena, _ := newArena(t, 100)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.ErrorIs(t, r.(error), memutils.ErrInvalidRelease)
	}()

	arena.Release(freelist.Pointer(200))
}

func TestClear(t *testing.T) {
	arena, _ := newArena(t, 100)

	acquire(t, arena, 10)
	acquire(t, arena, 20)

	arena.Clear()
	require.True(t, arena.IsEmpty())
	require.Equal(t, []region{{Offset: 0, Size: 100, Free: true}}, regions(t, arena))
	require.NoError(t, arena.Validate())
}

func TestInitRejectsBadSizes(t *testing.T) {
	memory := make([]byte, 100)

	for _, size := range []int{8, 200, 98} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, "Init(%d) should panic", size)

				err, isErr := r.(error)
				require.True(t, isErr, "panic value %v is not an error", r)
				require.ErrorIs(t, err, memutils.ErrInvalidArena)
			}()

			freelist.NewFreeListBlockMetadata(nil, memory).Init(size)
		}()
	}
}

func TestStatistics(t *testing.T) {
	arena, _ := newArena(t, 100)

	var stats memutils.DetailedStatistics
	stats.Clear()
	arena.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			ArenaCount:      1,
			ArenaBytes:      100,
			AllocationCount: 0,
			AllocationBytes: 0,
		},
		FreeBlockCount:    1,
		HeaderBytes:       8,
		AllocationSizeMin: math.MaxInt,
		AllocationSizeMax: 0,
		FreeBlockSizeMin:  100,
		FreeBlockSizeMax:  100,
	}, stats)

	acquire(t, arena, 10)
	acquire(t, arena, 30)

	stats.Clear()
	arena.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			ArenaCount:      1,
			ArenaBytes:      100,
			AllocationCount: 2,
			AllocationBytes: 60,
		},
		FreeBlockCount:    1,
		HeaderBytes:       24,
		AllocationSizeMin: 20,
		AllocationSizeMax: 40,
		FreeBlockSizeMin:  40,
		FreeBlockSizeMax:  40,
	}, stats)

	var summary memutils.Statistics
	arena.AddStatistics(&summary)
	require.Equal(t, memutils.Statistics{
		ArenaCount:      1,
		ArenaBytes:      100,
		AllocationCount: 2,
		AllocationBytes: 60,
	}, summary)
	require.Equal(t, 40, summary.FreeBytes())
}

func TestPrintDetailedMap(t *testing.T) {
	arena, _ := newArena(t, 100)

	first := acquire(t, arena, 10)
	acquire(t, arena, 70)
	arena.Release(first)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	arena.PrintDetailedMap(&obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.JSONEq(t, `{
		"TotalBytes": 100,
		"UnusedBytes": 20,
		"Allocations": 1,
		"FreeBlocks": 1,
		"Blocks": [
			{"Offset": 0, "Size": 20, "Type": "FREE"},
			{"Offset": 20, "Size": 80, "Type": "USED", "Payload": 28}
		]
	}`, string(writer.Bytes()))
}

func TestBlockJsonDataLeavesObjectWritable(t *testing.T) {
	arena, _ := newArena(t, 100)
	acquire(t, arena, 10)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	arena.BlockJsonData(&obj)
	obj.Name("Label").String("after")
	obj.End()

	require.NoError(t, writer.Error())
	require.True(t, json.Valid(writer.Bytes()), "invalid json: %s", writer.Bytes())
	require.JSONEq(t, `{
		"TotalBytes": 100,
		"UnusedBytes": 80,
		"Allocations": 1,
		"FreeBlocks": 1,
		"Label": "after"
	}`, string(writer.Bytes()))
}

func TestPrintDetailedMapIsValidJson(t *testing.T) {
	arena, _ := newArena(t, 100)
	acquire(t, arena, 10)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	arena.PrintDetailedMap(&obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.True(t, json.Valid(writer.Bytes()), "invalid json: %s", writer.Bytes())
}

func TestNoOverlap(t *testing.T) {
	const arenaSize = 4096

	arena, memory := newArena(t, arenaSize)
	random := rand.New(rand.NewSource(42))

	type live struct {
		ptr     freelist.Pointer
		size    int
		pattern byte
	}
	var allocations []live
	var nextPattern byte = 1

	for i := 0; i < 2000; i++ {
		if len(allocations) > 0 && random.Intn(3) == 0 {
			index := random.Intn(len(allocations))
			alloc := allocations[index]

			view, err := arena.Bytes(alloc.ptr, alloc.size)
			require.NoError(t, err)
			for _, b := range view {
				require.Equal(t, alloc.pattern, b, "allocation at %d was overwritten", alloc.ptr)
			}

			arena.Release(alloc.ptr)
			allocations = append(allocations[:index], allocations[index+1:]...)
		} else {
			size := random.Intn(200)
			ptr, err := arena.Acquire(size, 4)
			if err != nil {
				require.ErrorIs(t, err, memutils.ErrOutOfMemory)
				continue
			}

			view, err := arena.Bytes(ptr, size)
			require.NoError(t, err)
			for j := range view {
				view[j] = nextPattern
			}

			allocations = append(allocations, live{ptr: ptr, size: size, pattern: nextPattern})
			nextPattern++
			if nextPattern == 0 {
				nextPattern = 1
			}
		}

		require.NoError(t, arena.Validate())
		require.Equal(t, len(allocations), arena.AllocationCount())

		sorted := make([]live, len(allocations))
		copy(sorted, allocations)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].ptr < sorted[b].ptr })

		end := 0
		for _, alloc := range sorted {
			capacity, err := arena.AllocationSize(alloc.ptr)
			require.NoError(t, err)
			require.GreaterOrEqual(t, capacity, alloc.size)

			start := alloc.ptr.BlockOffset()
			require.GreaterOrEqual(t, start, end, "allocation at %d overlaps its predecessor", alloc.ptr)
			end = int(alloc.ptr) + capacity
			require.LessOrEqual(t, end, len(memory))
		}
	}
}

func TestDebugLogAllAllocations(t *testing.T) {
	arena, _ := newArena(t, 100)

	acquire(t, arena, 10)
	second := acquire(t, arena, 10)
	acquire(t, arena, 10)
	arena.Release(second)

	var offsets []int
	arena.DebugLogAllAllocations(nil, func(_ *slog.Logger, offset int, size int) {
		offsets = append(offsets, offset)
		require.Equal(t, 20, size)
	})

	require.Equal(t, []int{0, 40}, offsets)
}
