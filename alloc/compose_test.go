package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	mock_alloc "github.com/vkngwrapper/ndmem/alloc/mocks"
	"go.uber.org/mock/gomock"
)

func TestSegregatorRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	small := mock_alloc.NewMockAllocator(ctrl)
	large := mock_alloc.NewMockAllocator(ctrl)

	segregator, err := alloc.NewSegregator(256, small, large)
	require.NoError(t, err)

	smallBlock := alloc.HeapAllocator{}.Allocate(255)
	largeBlock := alloc.HeapAllocator{}.Allocate(256)

	small.EXPECT().Allocate(255).Return(smallBlock)
	large.EXPECT().Allocate(256).Return(largeBlock)
	require.Equal(t, smallBlock, segregator.Allocate(255))
	require.Equal(t, largeBlock, segregator.Allocate(256))

	small.EXPECT().Deallocate(smallBlock)
	large.EXPECT().Deallocate(largeBlock)
	segregator.Deallocate(smallBlock)
	segregator.Deallocate(largeBlock)

	require.True(t, segregator.Allocate(0).IsNull())
	segregator.Deallocate(alloc.Block{})
}

func TestFallbackRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	primary := mock_alloc.NewMockOwningAllocator(ctrl)
	secondary := mock_alloc.NewMockAllocator(ctrl)

	fallback, err := alloc.NewFallback(primary, secondary)
	require.NoError(t, err)

	primaryBlock := alloc.HeapAllocator{}.Allocate(32)
	secondaryBlock := alloc.HeapAllocator{}.Allocate(32)

	gomock.InOrder(
		primary.EXPECT().Allocate(32).Return(primaryBlock),
		primary.EXPECT().Allocate(32).Return(alloc.Block{}),
		secondary.EXPECT().Allocate(32).Return(secondaryBlock),
	)
	require.Equal(t, primaryBlock, fallback.Allocate(32))
	require.Equal(t, secondaryBlock, fallback.Allocate(32))

	primary.EXPECT().Owns(primaryBlock).Return(true)
	primary.EXPECT().Deallocate(primaryBlock)
	fallback.Deallocate(primaryBlock)

	primary.EXPECT().Owns(secondaryBlock).Return(false)
	secondary.EXPECT().Deallocate(secondaryBlock)
	fallback.Deallocate(secondaryBlock)
}

func TestFallbackOverBucket(t *testing.T) {
	bucket, err := alloc.NewBucket(alloc.HeapAllocator{}, 16, 2)
	require.NoError(t, err)

	tracking, err := alloc.NewTracking(nil, alloc.HeapAllocator{}, alloc.TrackingOptions{})
	require.NoError(t, err)

	fallback, err := alloc.NewFallback(bucket, tracking)
	require.NoError(t, err)

	a := fallback.Allocate(16)
	b := fallback.Allocate(16)
	c := fallback.Allocate(16)
	require.True(t, bucket.Owns(a))
	require.True(t, bucket.Owns(b))
	require.False(t, bucket.Owns(c))
	require.Equal(t, 16, tracking.Outstanding())

	fallback.Deallocate(c)
	fallback.Deallocate(b)
	fallback.Deallocate(a)
	require.Equal(t, 0, tracking.Outstanding())
	require.True(t, bucket.IsEmpty())

	require.NoError(t, bucket.Destroy())
	require.NoError(t, tracking.Destroy())
}

func TestSynchronizedForwards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	parent := mock_alloc.NewMockOwningAllocator(ctrl)
	synchronized := alloc.NewSynchronized(parent, true)

	block := alloc.HeapAllocator{}.Allocate(8)
	parent.EXPECT().Allocate(8).Return(block)
	parent.EXPECT().Owns(block).Return(true)
	parent.EXPECT().Deallocate(block)

	require.Equal(t, block, synchronized.Allocate(8))
	require.True(t, synchronized.Owns(block))
	synchronized.Deallocate(block)
	require.Equal(t, parent, synchronized.Parent())
}
