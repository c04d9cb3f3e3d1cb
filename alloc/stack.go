package alloc

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Stack is a bump allocator over a fixed arena reserved from a parent allocator. Allocation sizes are
// rounded up to MaxAlignment. Deallocation is strictly LIFO: only the most recently allocated live
// block may be deallocated, which rolls the bump pointer back. Deallocating any other block is a
// usage error and panics.
type Stack struct {
	parent Allocator
	arena  Block
	top    int
	count  int
}

var _ OwningAllocator = &Stack{}

// NewStack reserves an arena of the provided size from the parent allocator
func NewStack(parent Allocator, size int) (*Stack, error) {
	if parent == nil {
		return nil, errors.New("a stack allocator requires a parent allocator")
	}
	if size < 1 {
		return nil, errors.Newf("invalid stack arena size: %d", size)
	}

	arena := parent.Allocate(roundSize(size))
	if arena.IsNull() {
		return nil, errors.Wrapf(memutils.ErrOutOfMemory, "failed to reserve a %d-byte stack arena", size)
	}

	return &Stack{parent: parent, arena: arena}, nil
}

// Used returns the number of arena bytes currently allocated, including rounding
func (s *Stack) Used() int { return s.top }

// Remaining returns the number of arena bytes still available
func (s *Stack) Remaining() int { return s.arena.Size - s.top }

func (s *Stack) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}

	rounded := roundSize(size)
	if rounded > s.Remaining() {
		return Block{}
	}

	b := Block{Ptr: s.arena.offset(s.top), Size: size}
	s.top += rounded
	s.count++
	return b
}

func (s *Stack) Deallocate(b Block) {
	if b.IsNull() {
		return
	}

	if !s.Owns(b) {
		panic(errors.AssertionFailedf("block at %#x was not allocated from the stack allocator at %#x", b.Addr(), s.arena.Addr()))
	}

	rounded := roundSize(b.Size)
	if b.Addr()+uintptr(rounded) != s.arena.Addr()+uintptr(s.top) {
		panic(errors.AssertionFailedf("stack allocator deallocations must be LIFO: block at %#x of size %d is not the most recent allocation", b.Addr(), b.Size))
	}

	s.top -= rounded
	s.count--
}

func (s *Stack) Owns(b Block) bool {
	return !b.IsNull() && b.Addr() >= s.arena.Addr() && b.Addr() < s.arena.Addr()+uintptr(s.top)
}

func (s *Stack) AddStatistics(stats *memutils.Statistics) {
	stats.AddBlock(s.arena.Size)
	stats.AllocationCount += s.count
	stats.AllocationBytes += s.top
}

func (s *Stack) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.AddBlock(s.arena.Size)
	stats.AllocationCount += s.count
	stats.AllocationBytes += s.top
	if s.Remaining() > 0 {
		stats.AddFreeRange(s.Remaining())
	}
}

// Destroy returns the arena to the parent allocator. It returns an error, and keeps the arena, if any
// allocation is still live.
func (s *Stack) Destroy() error {
	if s.arena.IsNull() {
		return nil
	}
	if s.count > 0 {
		return errors.Wrapf(memutils.ErrUnreleasedMemory, "stack allocator at %#x still has %d live allocations (%d bytes)", s.arena.Addr(), s.count, s.top)
	}

	s.parent.Deallocate(s.arena)
	s.arena = Block{}
	return nil
}

func (s *Stack) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Stack")
	json.Name("Arena").String(fmt.Sprintf("%#x", s.arena.Addr()))
	json.Name("TotalBytes").Int(s.arena.Size)
	json.Name("UsedBytes").Int(s.top)
	json.Name("Allocations").Int(s.count)
}
