package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/memutils"
)

func TestStackBump(t *testing.T) {
	stack, err := alloc.NewStack(alloc.HeapAllocator{}, 100)
	require.NoError(t, err)
	require.Equal(t, 112, stack.Remaining())

	a := stack.Allocate(10)
	b := stack.Allocate(20)
	require.Equal(t, a.Addr()+16, b.Addr())
	require.Equal(t, 48, stack.Used())
	require.True(t, memutils.IsAligned(b.Addr(), alloc.MaxAlignment))

	require.True(t, stack.Allocate(65).IsNull())

	var stats memutils.DetailedStatistics
	stats.Clear()
	stack.AddDetailedStatistics(&stats)
	require.Equal(t, 2, stats.AllocationCount)
	require.Equal(t, 48, stats.AllocationBytes)
	require.Equal(t, 1, stats.FreeRangeCount)
	require.Equal(t, 64, stats.FreeRangeSizes.Max)

	stack.Deallocate(b)
	stack.Deallocate(a)
	require.Equal(t, 0, stack.Used())

	// The rolled-back space is handed out again
	c := stack.Allocate(112)
	require.Equal(t, a.Addr(), c.Addr())
	stack.Deallocate(c)

	require.NoError(t, stack.Destroy())
}

func TestStackNonLIFOPanics(t *testing.T) {
	stack, err := alloc.NewStack(alloc.HeapAllocator{}, 64)
	require.NoError(t, err)

	a := stack.Allocate(16)
	b := stack.Allocate(16)

	require.Panics(t, func() { stack.Deallocate(a) })
	require.Equal(t, 32, stack.Used())

	stack.Deallocate(b)
	stack.Deallocate(a)

	require.Panics(t, func() { stack.Deallocate(a) })
}

func TestStackDestroyWithLiveBlocks(t *testing.T) {
	stack, err := alloc.NewStack(alloc.HeapAllocator{}, 64)
	require.NoError(t, err)

	a := stack.Allocate(16)
	require.Error(t, stack.Destroy())

	stack.Deallocate(a)
	require.NoError(t, stack.Destroy())
}
