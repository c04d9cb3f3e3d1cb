//go:build unix

package alloc

import (
	"fmt"
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
	"golang.org/x/sys/unix"
)

var pageSize = unix.Getpagesize()

// PageAllocator is a direct allocator that maps anonymous private pages for every request and unmaps
// them on Deallocate. The memory lives outside the Go heap and is zeroed by the kernel. Sizes are
// rounded up to whole pages, so the allocator is best used for large arrays or as the parent of an
// arena allocator.
type PageAllocator struct{}

var _ Allocator = PageAllocator{}
var _ ZeroAllocator = PageAllocator{}

// PageSize returns the size of the pages mapped by PageAllocator
func PageSize() int {
	return pageSize
}

func (PageAllocator) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}

	memutils.DebugCheckPow2(pageSize, "page size")
	mapped, err := unix.Mmap(-1, 0, memutils.AlignUp(size, uint(pageSize)),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return Block{}
	}

	return Block{Ptr: unsafe.Pointer(unsafe.SliceData(mapped)), Size: size}
}

func (a PageAllocator) AllocateZeroed(size int) Block {
	return a.Allocate(size)
}

func (PageAllocator) Deallocate(b Block) {
	if b.IsNull() {
		return
	}

	// munmap looks the mapping up by its full length, so rebuild the slice mmap returned
	mappedLen := memutils.AlignUp(b.Size, uint(pageSize))
	err := unix.Munmap(unsafe.Slice((*byte)(b.Ptr), mappedLen))
	if err != nil {
		panic(fmt.Sprintf("failed to unmap %d bytes at %#x: %+v", mappedLen, b.Addr(), err))
	}
}

func (PageAllocator) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Pages")
	json.Name("PageSize").Int(pageSize)
}
