package alloc

import (
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// HeapAllocator is the direct allocator: it hands out memory from the Go runtime heap. The heap always
// returns zeroed memory, so AllocateZeroed is the same operation.
//
// Deallocate only drops the allocator's interest in the block. The runtime reclaims the memory once no
// Block refers to it anymore, so blocks from this allocator must only hold pointer-free data.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}
var _ ZeroAllocator = HeapAllocator{}

func (HeapAllocator) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}

	raw := make([]byte, size+int(MaxAlignment)-1)
	base := unsafe.Pointer(unsafe.SliceData(raw))
	offset := memutils.AlignUp(int(uintptr(base)), MaxAlignment) - int(uintptr(base))

	return Block{Ptr: unsafe.Add(base, offset), Size: size}
}

func (a HeapAllocator) AllocateZeroed(size int) Block {
	return a.Allocate(size)
}

func (HeapAllocator) Deallocate(b Block) {}

func (HeapAllocator) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Heap")
}
