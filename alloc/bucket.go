package alloc

import (
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Bucket is a fixed-size bucket allocator: a single contiguous arena reserved from a parent allocator
// and divided into equal-size slots. Free slots are tracked in a bitmask; Allocate hands out the lowest
// free slot and Deallocate finds the slot from the block's address.
//
// A Bucket serves any request up to its slot size and returns the null block for larger requests or
// when every slot is taken.
type Bucket struct {
	parent    Allocator
	arena     Block
	slotSize  int
	slotCount int

	// Set bits mark free slots
	freeMask  []uint64
	allocated int
}

var _ OwningAllocator = &Bucket{}

// NewBucket reserves an arena of slotCount slots of slotSize bytes from the parent allocator. The
// slot size is rounded up to MaxAlignment.
func NewBucket(parent Allocator, slotSize, slotCount int) (*Bucket, error) {
	b := &Bucket{}
	err := b.Init(parent, slotSize, slotCount)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Init prepares a zero-value Bucket, reserving its arena from the parent allocator
func (b *Bucket) Init(parent Allocator, slotSize, slotCount int) error {
	if !b.arena.IsNull() {
		panic("attempting to initialize a bucket allocator that is already in use")
	}
	if parent == nil {
		return errors.New("a bucket allocator requires a parent allocator")
	}
	if slotSize < 1 {
		return errors.Newf("invalid slot size: %d", slotSize)
	}
	if slotCount < 1 {
		return errors.Newf("invalid slot count: %d", slotCount)
	}

	slotSize = roundSize(slotSize)
	arena := parent.Allocate(slotSize * slotCount)
	if arena.IsNull() {
		return errors.Wrapf(memutils.ErrOutOfMemory, "failed to reserve a %d-slot arena of %d-byte slots", slotCount, slotSize)
	}

	b.parent = parent
	b.arena = arena
	b.slotSize = slotSize
	b.slotCount = slotCount
	b.allocated = 0
	b.freeMask = make([]uint64, (slotCount+63)/64)
	for i := range b.freeMask {
		b.freeMask[i] = ^uint64(0)
	}
	if tail := slotCount % 64; tail != 0 {
		b.freeMask[len(b.freeMask)-1] = (uint64(1) << tail) - 1
	}

	return nil
}

func (b *Bucket) SlotSize() int  { return b.slotSize }
func (b *Bucket) SlotCount() int { return b.slotCount }

// Arena returns the block reserved from the parent allocator
func (b *Bucket) Arena() Block { return b.arena }

func (b *Bucket) IsFull() bool  { return b.allocated == b.slotCount }
func (b *Bucket) IsEmpty() bool { return b.allocated == 0 }

// AllocationCount returns the number of slots currently handed out
func (b *Bucket) AllocationCount() int { return b.allocated }

func (b *Bucket) Allocate(size int) Block {
	if size <= 0 || size > b.slotSize || b.IsFull() {
		return Block{}
	}

	for wordIndex, word := range b.freeMask {
		if word == 0 {
			continue
		}

		bit := bits.TrailingZeros64(word)
		b.freeMask[wordIndex] = word &^ (uint64(1) << bit)
		b.allocated++

		slot := wordIndex*64 + bit
		return Block{Ptr: b.arena.offset(slot * b.slotSize), Size: size}
	}

	panic("bucket allocator reports free slots but its free mask is empty")
}

func (b *Bucket) Deallocate(block Block) {
	if block.IsNull() {
		return
	}

	slot := b.slotIndex(block)
	word, bit := slot/64, uint(slot%64)
	if b.freeMask[word]&(uint64(1)<<bit) != 0 {
		panic(errors.AssertionFailedf("double free of slot %d in bucket allocator at %#x", slot, b.arena.Addr()))
	}

	b.freeMask[word] |= uint64(1) << bit
	b.allocated--
}

func (b *Bucket) slotIndex(block Block) int {
	if !b.arena.Contains(block.Addr()) {
		panic(errors.AssertionFailedf("block at %#x was not allocated from the bucket allocator at %#x", block.Addr(), b.arena.Addr()))
	}

	offset := int(block.Addr() - b.arena.Addr())
	if offset%b.slotSize != 0 {
		panic(errors.AssertionFailedf("block at %#x does not start on a slot boundary of the bucket allocator at %#x", block.Addr(), b.arena.Addr()))
	}

	return offset / b.slotSize
}

func (b *Bucket) Owns(block Block) bool {
	return b.arena.Contains(block.Addr())
}

func (b *Bucket) Validate() error {
	free := 0
	for _, word := range b.freeMask {
		free += bits.OnesCount64(word)
	}

	if free+b.allocated != b.slotCount {
		return errors.Errorf("bucket allocator has %d free slots and %d allocated slots, but %d slots in total", free, b.allocated, b.slotCount)
	}

	return nil
}

func (b *Bucket) AddStatistics(stats *memutils.Statistics) {
	stats.AddBlock(b.arena.Size)
	stats.AllocationCount += b.allocated
	stats.AllocationBytes += b.allocated * b.slotSize
}

func (b *Bucket) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.AddBlock(b.arena.Size)
	for slot := 0; slot < b.slotCount; slot++ {
		if b.freeMask[slot/64]&(uint64(1)<<uint(slot%64)) != 0 {
			stats.AddFreeRange(b.slotSize)
		} else {
			stats.AddAllocation(b.slotSize)
		}
	}
}

// Destroy returns the arena to the parent allocator. It returns an error, and keeps the arena, if any
// slot is still allocated.
func (b *Bucket) Destroy() error {
	if b.arena.IsNull() {
		return nil
	}

	memutils.DebugValidate(b)
	if !b.IsEmpty() {
		return errors.Wrapf(memutils.ErrUnreleasedMemory, "bucket allocator at %#x still has %d allocated slots", b.arena.Addr(), b.allocated)
	}

	b.parent.Deallocate(b.arena)
	b.arena = Block{}
	b.freeMask = nil
	return nil
}

func (b *Bucket) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Bucket")
	json.Name("Arena").String(fmt.Sprintf("%#x", b.arena.Addr()))
	json.Name("SlotSize").Int(b.slotSize)
	json.Name("SlotCount").Int(b.slotCount)
	json.Name("Allocations").Int(b.allocated)
}
