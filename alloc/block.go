package alloc

import "unsafe"

// MaxAlignment is the alignment, in bytes, of every non-null Block returned by the allocators in
// this package. It is sufficient for every numeric and complex element type.
const MaxAlignment uint = 16

// Block describes one contiguous allocation. Ptr is nil if and only if Size is 0. Blocks are produced
// and consumed by allocators only; handles carry them without interpreting them for ownership.
type Block struct {
	Ptr  unsafe.Pointer
	Size int
}

// IsNull returns true for the empty block, which is also the value allocators return on failure
func (b Block) IsNull() bool {
	return b.Ptr == nil
}

// Addr returns the address of the first byte of the block
func (b Block) Addr() uintptr {
	return uintptr(b.Ptr)
}

// End returns the address one past the last byte of the block
func (b Block) End() uintptr {
	return uintptr(b.Ptr) + uintptr(b.Size)
}

// Contains returns true if the address lies inside the block
func (b Block) Contains(addr uintptr) bool {
	return !b.IsNull() && addr >= b.Addr() && addr < b.End()
}

// Bytes exposes the block's memory as a byte slice. The slice is only valid while the block is
// allocated.
func (b Block) Bytes() []byte {
	if b.IsNull() {
		return nil
	}
	return unsafe.Slice((*byte)(b.Ptr), b.Size)
}

// Clear overwrites the block's memory with zeroes
func (b Block) Clear() {
	clear(b.Bytes())
}

func (b Block) offset(offset int) unsafe.Pointer {
	return unsafe.Add(b.Ptr, offset)
}
