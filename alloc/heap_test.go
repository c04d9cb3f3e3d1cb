package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/memutils"
)

func TestHeapAllocate(t *testing.T) {
	heap := alloc.HeapAllocator{}

	require.True(t, heap.Allocate(0).IsNull())

	for _, size := range []int{1, 7, 16, 33, 4096} {
		b := heap.Allocate(size)
		require.False(t, b.IsNull())
		require.Equal(t, size, b.Size)
		require.True(t, memutils.IsAligned(b.Addr(), alloc.MaxAlignment))
		require.Len(t, b.Bytes(), size)

		for i := range b.Bytes() {
			b.Bytes()[i] = byte(i)
		}
		heap.Deallocate(b)
	}
}

func TestAllocateZeroedClears(t *testing.T) {
	stack, err := alloc.NewStack(alloc.HeapAllocator{}, 64)
	require.NoError(t, err)

	b := stack.Allocate(32)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xff
	}
	stack.Deallocate(b)

	b = alloc.AllocateZeroed(stack, 32)
	require.Equal(t, make([]byte, 32), b.Bytes())
	stack.Deallocate(b)

	require.NoError(t, stack.Destroy())
}

func TestBlockContains(t *testing.T) {
	b := alloc.HeapAllocator{}.Allocate(32)

	require.True(t, b.Contains(b.Addr()))
	require.True(t, b.Contains(b.End()-1))
	require.False(t, b.Contains(b.End()))
	require.False(t, alloc.Block{}.Contains(0))
}
