package alloc

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Fallback tries a primary allocator and, when it returns the null block, a secondary one.
// Deallocation asks the primary whether it owns the block, which is why the primary must be an
// OwningAllocator.
type Fallback struct {
	primary   OwningAllocator
	secondary Allocator
}

var _ OwningAllocator = &Fallback{}

func NewFallback(primary OwningAllocator, secondary Allocator) (*Fallback, error) {
	if primary == nil || secondary == nil {
		return nil, errors.New("a fallback allocator requires both a primary and a secondary allocator")
	}

	return &Fallback{primary: primary, secondary: secondary}, nil
}

func (f *Fallback) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}

	b := f.primary.Allocate(size)
	if !b.IsNull() {
		return b
	}

	return f.secondary.Allocate(size)
}

func (f *Fallback) Deallocate(b Block) {
	if b.IsNull() {
		return
	}

	if f.primary.Owns(b) {
		f.primary.Deallocate(b)
		return
	}

	f.secondary.Deallocate(b)
}

func (f *Fallback) Owns(b Block) bool {
	return f.primary.Owns(b) || Owns(f.secondary, b)
}

func (f *Fallback) AddStatistics(stats *memutils.Statistics) {
	addStatistics(stats, f.primary)
	addStatistics(stats, f.secondary)
}

func (f *Fallback) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Fallback")

	printParent(json, "Primary", f.primary)
	printParent(json, "Secondary", f.secondary)
}
