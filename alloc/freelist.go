package alloc

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// FreeList wraps a parent allocator and caches freed blocks of one size class. Requests whose size
// falls within [min, max] are served as max-sized blocks, taken from the cache when it has one and
// from the parent otherwise. Freed blocks of the size class go back to the cache, most recent first,
// until the cache holds Capacity blocks. Every other request goes straight to the parent.
type FreeList struct {
	parent   Allocator
	min      int
	max      int
	capacity int

	cached      []Block
	outstanding int
}

var _ Allocator = &FreeList{}

// FreeListOptions configures a FreeList. A Capacity of 0 leaves the cache unbounded.
type FreeListOptions struct {
	Min      int
	Max      int
	Capacity int
}

func NewFreeList(parent Allocator, options FreeListOptions) (*FreeList, error) {
	if parent == nil {
		return nil, errors.New("a free-list allocator requires a parent allocator")
	}
	if options.Min < 1 || options.Max < options.Min {
		return nil, errors.Newf("invalid free-list size class [%d, %d]", options.Min, options.Max)
	}
	if options.Capacity < 0 {
		return nil, errors.Newf("invalid free-list capacity: %d", options.Capacity)
	}

	return &FreeList{
		parent:   parent,
		min:      options.Min,
		max:      options.Max,
		capacity: options.Capacity,
	}, nil
}

func (f *FreeList) inRange(size int) bool {
	return size >= f.min && size <= f.max
}

// CachedCount returns the number of freed blocks currently held for reuse
func (f *FreeList) CachedCount() int { return len(f.cached) }

func (f *FreeList) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}
	if !f.inRange(size) {
		return f.parent.Allocate(size)
	}

	if last := len(f.cached) - 1; last >= 0 {
		b := f.cached[last]
		f.cached = f.cached[:last]
		f.outstanding++
		return Block{Ptr: b.Ptr, Size: size}
	}

	b := f.parent.Allocate(f.max)
	if b.IsNull() {
		return Block{}
	}

	f.outstanding++
	return Block{Ptr: b.Ptr, Size: size}
}

func (f *FreeList) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	if !f.inRange(b.Size) {
		f.parent.Deallocate(b)
		return
	}

	if f.outstanding == 0 {
		panic(errors.AssertionFailedf("free-list allocator received block at %#x but has no outstanding blocks", b.Addr()))
	}
	f.outstanding--

	full := Block{Ptr: b.Ptr, Size: f.max}
	if f.capacity > 0 && len(f.cached) >= f.capacity {
		f.parent.Deallocate(full)
		return
	}

	f.cached = append(f.cached, full)
}

// AddStatistics forwards to the parent allocator when it keeps statistics. Otherwise every block held
// by the free list counts as a block, and the outstanding ones as allocations.
func (f *FreeList) AddStatistics(stats *memutils.Statistics) {
	if addStatistics(stats, f.parent) {
		return
	}

	stats.BlockCount += len(f.cached) + f.outstanding
	stats.BlockBytes += (len(f.cached) + f.outstanding) * f.max
	stats.AllocationCount += f.outstanding
	stats.AllocationBytes += f.outstanding * f.max
}

// Destroy returns every cached block to the parent allocator. Blocks still handed out are reported
// with an error and are not touched.
func (f *FreeList) Destroy() error {
	for _, b := range f.cached {
		f.parent.Deallocate(b)
	}
	f.cached = nil

	if f.outstanding > 0 {
		return errors.Wrapf(memutils.ErrUnreleasedMemory, "free-list allocator for sizes [%d, %d] still has %d blocks outstanding", f.min, f.max, f.outstanding)
	}
	return nil
}

func (f *FreeList) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("FreeList")
	json.Name("MinSize").Int(f.min)
	json.Name("MaxSize").Int(f.max)
	json.Name("Capacity").Int(f.capacity)
	json.Name("Cached").Int(len(f.cached))
	json.Name("Outstanding").Int(f.outstanding)

	printParent(json, "Parent", f.parent)
}
