//go:build !unix

package alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

const fallbackPageSize = 4096

// PageAllocator hands out whole pages of memory. Platforms without mmap fall back to the Go heap.
type PageAllocator struct{}

var _ Allocator = PageAllocator{}
var _ ZeroAllocator = PageAllocator{}

// PageSize returns the size of the pages handed out by PageAllocator
func PageSize() int {
	return fallbackPageSize
}

func (PageAllocator) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}

	b := HeapAllocator{}.Allocate(memutils.AlignUp(size, fallbackPageSize))
	b.Size = size
	return b
}

func (a PageAllocator) AllocateZeroed(size int) Block {
	return a.Allocate(size)
}

func (PageAllocator) Deallocate(b Block) {}

func (PageAllocator) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Pages")
	json.Name("PageSize").Int(fallbackPageSize)
}
