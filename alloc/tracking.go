package alloc

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
	"golang.org/x/exp/slog"
)

// TrackingOptions configures a Tracking allocator
type TrackingOptions struct {
	// Detailed records every live block by address, so that double frees and blocks from other
	// allocators are caught at Deallocate and every leaked block can be reported at Destroy
	Detailed bool
}

// Tracking is the accounting wrapper: it forwards every request to a parent allocator while counting
// outstanding bytes, the peak outstanding byte count and the number of live blocks. Deallocating more
// than was allocated is a fault and panics. Destroying the wrapper while bytes are outstanding
// reports the leak.
type Tracking struct {
	logger *slog.Logger
	parent Allocator

	outstanding int
	peak        int
	count       int

	live *swiss.Map[uintptr, int]
}

var _ Allocator = &Tracking{}

func NewTracking(logger *slog.Logger, parent Allocator, options TrackingOptions) (*Tracking, error) {
	if parent == nil {
		return nil, errors.New("a tracking allocator requires a parent allocator")
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tracking{
		logger: logger,
		parent: parent,
	}
	if options.Detailed {
		t.live = swiss.NewMap[uintptr, int](42)
	}

	return t, nil
}

// Outstanding returns the number of bytes allocated and not yet deallocated
func (t *Tracking) Outstanding() int { return t.outstanding }

// Peak returns the highest value Outstanding has reached
func (t *Tracking) Peak() int { return t.peak }

// AllocationCount returns the number of live blocks
func (t *Tracking) AllocationCount() int { return t.count }

// Detailed returns true if the allocator records every live block
func (t *Tracking) Detailed() bool { return t.live != nil }

func (t *Tracking) Allocate(size int) Block {
	return t.record(t.parent.Allocate(size))
}

func (t *Tracking) AllocateZeroed(size int) Block {
	return t.record(AllocateZeroed(t.parent, size))
}

func (t *Tracking) record(b Block) Block {
	if b.IsNull() {
		return b
	}

	if t.live != nil {
		if _, exists := t.live.Get(b.Addr()); exists {
			panic(errors.AssertionFailedf("parent allocator returned block at %#x, which is already live", b.Addr()))
		}
		t.live.Put(b.Addr(), b.Size)
	}

	t.outstanding += b.Size
	t.count++
	if t.outstanding > t.peak {
		t.peak = t.outstanding
	}

	return b
}

func (t *Tracking) Deallocate(b Block) {
	if b.IsNull() {
		return
	}

	if t.live != nil {
		size, exists := t.live.Get(b.Addr())
		if !exists {
			panic(errors.AssertionFailedf("block at %#x is not live in this tracking allocator: double free or foreign block", b.Addr()))
		}
		if size != b.Size {
			panic(errors.AssertionFailedf("block at %#x was allocated with size %d but deallocated with size %d", b.Addr(), size, b.Size))
		}
		t.live.Delete(b.Addr())
	}

	if t.outstanding-b.Size < 0 || t.count == 0 {
		panic(errors.AssertionFailedf("tracking allocator balance went negative: %d bytes outstanding, deallocating %d", t.outstanding, b.Size))
	}

	t.outstanding -= b.Size
	t.count--
	t.parent.Deallocate(b)
}

func (t *Tracking) Owns(b Block) bool {
	if t.live != nil {
		_, exists := t.live.Get(b.Addr())
		return exists
	}

	return Owns(t.parent, b)
}

func (t *Tracking) Validate() error {
	if t.outstanding < 0 || t.count < 0 {
		return errors.Errorf("tracking allocator balance is negative: %d bytes in %d blocks", t.outstanding, t.count)
	}

	if t.live == nil {
		return nil
	}

	if t.live.Count() != t.count {
		return errors.Errorf("tracking allocator counts %d live blocks but records %d", t.count, t.live.Count())
	}

	total := 0
	t.live.Iter(func(addr uintptr, size int) bool {
		total += size
		return false
	})
	if total != t.outstanding {
		return errors.Errorf("tracking allocator counts %d outstanding bytes but records %d", t.outstanding, total)
	}

	return nil
}

// AddStatistics forwards to the parent allocator when it keeps statistics, and reports the tracked
// blocks as allocations otherwise
func (t *Tracking) AddStatistics(stats *memutils.Statistics) {
	if addStatistics(stats, t.parent) {
		return
	}

	stats.AllocationCount += t.count
	stats.AllocationBytes += t.outstanding
}

// Destroy reports outstanding memory. Every leaked block is logged when the allocator is detailed,
// and the totals are logged otherwise. The returned error wraps memutils.ErrUnreleasedMemory, and in
// builds with the debug_ndmem tag the leak panics instead.
//
// A non-nil error means the program lost track of memory it still owns. Callers must treat it as
// fatal rather than continue with the allocator stack.
func (t *Tracking) Destroy() error {
	memutils.DebugValidate(t)

	if t.outstanding == 0 {
		return nil
	}

	if t.live != nil {
		t.live.Iter(func(addr uintptr, size int) bool {
			t.logUnreleasedMemory(addr, size)
			return false
		})
	} else {
		t.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocations",
			slog.Int("count", t.count),
			slog.Int("bytes", t.outstanding),
		)
	}

	err := errors.Wrapf(memutils.ErrUnreleasedMemory, "%d blocks (%d bytes) were not deallocated", t.count, t.outstanding)
	memutils.DebugFatal(err)
	return err
}

func (t *Tracking) logUnreleasedMemory(addr uintptr, size int) {
	t.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocation",
		slog.Any("address", addr),
		slog.Int("size", size),
	)
}

func (t *Tracking) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Tracking")
	json.Name("Detailed").Bool(t.live != nil)
	json.Name("OutstandingBytes").Int(t.outstanding)
	json.Name("PeakBytes").Int(t.peak)
	json.Name("Allocations").Int(t.count)

	printParent(json, "Parent", t.parent)
}
