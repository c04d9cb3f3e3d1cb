package alloc_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	mock_alloc "github.com/vkngwrapper/ndmem/alloc/mocks"
	"github.com/vkngwrapper/ndmem/memutils"
	"go.uber.org/mock/gomock"
)

func TestBucketReuse(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 24, 8)
	require.NoError(t, err)
	require.Equal(t, 32, bucket.SlotSize())

	first := bucket.Allocate(24)
	require.False(t, first.IsNull())
	bucket.Deallocate(first)

	second := bucket.Allocate(24)
	require.Equal(t, first.Addr(), second.Addr())
	bucket.Deallocate(second)

	require.NoError(t, bucket.Destroy())
}

func TestBucketLowestFreeSlot(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 16, 100)
	require.NoError(t, err)

	blocks := make([]alloc.Block, 100)
	for i := range blocks {
		blocks[i] = bucket.Allocate(16)
		require.Equal(t, bucket.Arena().Addr()+uintptr(i*16), blocks[i].Addr())
	}
	require.True(t, bucket.IsFull())
	require.True(t, bucket.Allocate(1).IsNull())

	bucket.Deallocate(blocks[70])
	bucket.Deallocate(blocks[3])
	require.Equal(t, blocks[3].Addr(), bucket.Allocate(8).Addr())
	require.Equal(t, blocks[70].Addr(), bucket.Allocate(8).Addr())
	require.NoError(t, bucket.Validate())

	for _, b := range blocks {
		bucket.Deallocate(b)
	}
	require.True(t, bucket.IsEmpty())
	require.NoError(t, bucket.Destroy())
}

func TestBucketRejectsOversize(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 16, 4)
	require.NoError(t, err)

	require.True(t, bucket.Allocate(17).IsNull())
	require.True(t, bucket.Allocate(0).IsNull())
	require.Equal(t, 0, bucket.AllocationCount())
}

func TestBucketFaults(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 16, 4)
	require.NoError(t, err)

	b := bucket.Allocate(16)
	bucket.Deallocate(b)
	require.Panics(t, func() { bucket.Deallocate(b) })

	foreign := alloc.HeapAllocator{}.Allocate(16)
	require.False(t, bucket.Owns(foreign))
	require.Panics(t, func() { bucket.Deallocate(foreign) })
}

func TestBucketDestroyReturnsArena(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	arena := alloc.HeapAllocator{}.Allocate(64)
	parent := mock_alloc.NewMockAllocator(ctrl)
	parent.EXPECT().Allocate(64).Return(arena)

	bucket, err := alloc.NewBucket(parent, 16, 4)
	require.NoError(t, err)

	b := bucket.Allocate(16)
	err = bucket.Destroy()
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrUnreleasedMemory))

	bucket.Deallocate(b)
	parent.EXPECT().Deallocate(arena)
	require.NoError(t, bucket.Destroy())
}

func TestBucketArenaFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	parent := mock_alloc.NewMockAllocator(ctrl)
	parent.EXPECT().Allocate(gomock.Any()).Return(alloc.Block{})

	_, err := alloc.NewBucket(parent, 16, 4)
	require.True(t, errors.Is(err, memutils.ErrOutOfMemory))

	_, err = alloc.NewBucket(parent, 0, 4)
	require.Error(t, err)
	_, err = alloc.NewBucket(nil, 16, 4)
	require.Error(t, err)
}

func TestBucketDetailedStatistics(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 16, 4)
	require.NoError(t, err)

	b := bucket.Allocate(10)

	var stats memutils.DetailedStatistics
	stats.Clear()
	bucket.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			BlockBytes:      64,
			AllocationCount: 1,
			AllocationBytes: 16,
		},
		FreeRangeCount:  3,
		AllocationSizes: memutils.SizeRange{Min: 16, Max: 16},
		FreeRangeSizes:  memutils.SizeRange{Min: 16, Max: 16},
	}, stats)

	bucket.Deallocate(b)

	stats.Clear()
	bucket.AddDetailedStatistics(&stats)
	require.Equal(t, 0, stats.AllocationCount)
	require.Equal(t, math.MaxInt, stats.AllocationSizes.Min)
	require.Equal(t, 4, stats.FreeRangeCount)
}
