package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/memutils"
)

func TestMultiBucketGrowth(t *testing.T) {
	multi, err := alloc.NewMultiBucket(alloc.HeapAllocator{}, 16, 2)
	require.NoError(t, err)
	require.Equal(t, 1, multi.BucketCount())

	var blocks []alloc.Block
	for i := 0; i < 6; i++ {
		b := multi.Allocate(16)
		require.False(t, b.IsNull())
		require.True(t, multi.Owns(b))
		blocks = append(blocks, b)
	}
	require.Equal(t, 3, multi.BucketCount())
	require.NoError(t, multi.Validate())

	var stats memutils.Statistics
	multi.AddStatistics(&stats)
	require.Equal(t, memutils.Statistics{
		BlockCount:      3,
		BlockBytes:      96,
		AllocationCount: 6,
		AllocationBytes: 96,
	}, stats)

	// Emptying a bucket that is not the last one releases it
	multi.Deallocate(blocks[0])
	multi.Deallocate(blocks[1])
	require.Equal(t, 2, multi.BucketCount())
	require.False(t, multi.Owns(blocks[0]))
	require.NoError(t, multi.Validate())

	for _, b := range blocks[2:] {
		multi.Deallocate(b)
	}
	require.Equal(t, 1, multi.BucketCount())
	require.NoError(t, multi.Validate())

	require.NoError(t, multi.Destroy())
	require.Equal(t, 0, multi.BucketCount())
}

func TestMultiBucketReusesFreedSlots(t *testing.T) {
	multi, err := alloc.NewMultiBucket(alloc.HeapAllocator{}, 16, 2)
	require.NoError(t, err)

	a := multi.Allocate(16)
	b := multi.Allocate(16)
	c := multi.Allocate(16)
	require.Equal(t, 2, multi.BucketCount())

	// Freeing from the first bucket while the second is current still leaves both
	multi.Deallocate(a)
	require.Equal(t, 2, multi.BucketCount())

	d := multi.Allocate(16)
	e := multi.Allocate(16)
	require.Equal(t, 2, multi.BucketCount())
	require.NoError(t, multi.Validate())

	for _, block := range []alloc.Block{b, c, d, e} {
		multi.Deallocate(block)
	}
	require.NoError(t, multi.Destroy())
}

func TestMultiBucketFaults(t *testing.T) {
	multi, err := alloc.NewMultiBucket(alloc.HeapAllocator{}, 16, 2)
	require.NoError(t, err)

	require.True(t, multi.Allocate(32).IsNull())

	foreign := alloc.HeapAllocator{}.Allocate(16)
	require.False(t, multi.Owns(foreign))
	require.Panics(t, func() { multi.Deallocate(foreign) })
}

func TestMultiBucketDestroyWithLiveSlots(t *testing.T) {
	multi, err := alloc.NewMultiBucket(alloc.HeapAllocator{}, 16, 2)
	require.NoError(t, err)

	b := multi.Allocate(16)
	require.Error(t, multi.Destroy())
	require.Equal(t, 1, multi.BucketCount())

	multi.Deallocate(b)
	require.NoError(t, multi.Destroy())
}
