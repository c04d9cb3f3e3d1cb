package alloc

//go:generate mockgen -source allocator.go -destination ./mocks/allocator.go -package mock_alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Allocator is the minimal allocator contract. Allocate returns a block of at least size bytes aligned
// to MaxAlignment, or the null block if size is 0 or the request could not be satisfied. Deallocate
// accepts a block previously returned by Allocate on the same allocator; deallocating the null block
// is a no-op.
//
// Allocators are stateful and are not safe for concurrent use unless documented otherwise. Wrap the
// outermost layer of a shared stack in a Synchronized allocator.
type Allocator interface {
	Allocate(size int) Block
	Deallocate(b Block)
}

// Owner is implemented by allocators that can decide whether a block came from them
type Owner interface {
	Owns(b Block) bool
}

// OwningAllocator is an Allocator that is also an Owner. Fallback requires one for its primary.
type OwningAllocator interface {
	Allocator
	Owner
}

// ZeroAllocator is implemented by allocators that can return zeroed memory more cheaply than
// clearing it after the fact
type ZeroAllocator interface {
	AllocateZeroed(size int) Block
}

// StatisticsSource is implemented by allocators that can summarize their memory usage
type StatisticsSource interface {
	AddStatistics(stats *memutils.Statistics)
}

// Destroyer is implemented by allocators holding resources (arenas, cached blocks, accounting) that
// must be released or checked when the allocator is no longer used. Destroy only releases what the
// allocator itself holds: the allocators it wraps are destroyed by whoever built them.
type Destroyer interface {
	Destroy() error
}

// StatsPrinter is implemented by allocators that can describe themselves in BuildStatsString output
type StatsPrinter interface {
	PrintStats(json *jwriter.ObjectState)
}

// AllocateZeroed returns a zeroed block from the provided allocator
func AllocateZeroed(a Allocator, size int) Block {
	if zeroAllocator, ok := a.(ZeroAllocator); ok {
		return zeroAllocator.AllocateZeroed(size)
	}

	b := a.Allocate(size)
	b.Clear()
	return b
}

// Destroy calls Destroy on the allocator if it holds any resources
func Destroy(a Allocator) error {
	if destroyer, ok := a.(Destroyer); ok {
		return destroyer.Destroy()
	}
	return nil
}

// Owns returns true if the allocator is an Owner that reports ownership of the block
func Owns(a Allocator, b Block) bool {
	owner, ok := a.(Owner)
	return ok && owner.Owns(b)
}

func roundSize(size int) int {
	return memutils.AlignUp(size, MaxAlignment)
}
