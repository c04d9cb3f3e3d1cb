package alloc

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
	"golang.org/x/exp/slices"
)

// MultiBucket is a growable collection of Bucket allocators sharing one slot size. Buckets are kept
// ordered by arena address so the bucket owning a block can be found with a binary search. Allocation
// goes to a current bucket; when it fills up another bucket with free slots becomes current, and a new
// bucket is reserved from the parent once all of them are full.
//
// A bucket that becomes empty is returned to the parent, unless it is the only bucket left.
type MultiBucket struct {
	parent         Allocator
	slotSize       int
	slotsPerBucket int

	buckets []*Bucket
	current *Bucket
}

var _ OwningAllocator = &MultiBucket{}

func NewMultiBucket(parent Allocator, slotSize, slotsPerBucket int) (*MultiBucket, error) {
	m := &MultiBucket{
		parent:         parent,
		slotSize:       roundSize(slotSize),
		slotsPerBucket: slotsPerBucket,
	}

	bucket, err := NewBucket(parent, slotSize, slotsPerBucket)
	if err != nil {
		return nil, err
	}

	m.buckets = []*Bucket{bucket}
	m.current = bucket
	return m, nil
}

func (m *MultiBucket) SlotSize() int { return m.slotSize }

// BucketCount returns the number of buckets currently reserved
func (m *MultiBucket) BucketCount() int { return len(m.buckets) }

func compareBucketAddress(bucket *Bucket, addr uintptr) int {
	base := bucket.arena.Addr()
	switch {
	case base < addr:
		return -1
	case base > addr:
		return 1
	default:
		return 0
	}
}

func (m *MultiBucket) Allocate(size int) Block {
	if size <= 0 || size > m.slotSize {
		return Block{}
	}

	if m.current.IsFull() {
		m.current = m.findNonFullBucket()
		if m.current == nil {
			m.current = m.buckets[0]
			return Block{}
		}
	}

	return m.current.Allocate(size)
}

func (m *MultiBucket) findNonFullBucket() *Bucket {
	for _, bucket := range m.buckets {
		if !bucket.IsFull() {
			return bucket
		}
	}

	bucket, err := NewBucket(m.parent, m.slotSize, m.slotsPerBucket)
	if err != nil {
		return nil
	}

	index, _ := slices.BinarySearchFunc(m.buckets, bucket.arena.Addr(), compareBucketAddress)
	m.buckets = slices.Insert(m.buckets, index, bucket)
	return bucket
}

// bucketIndex finds the last bucket whose arena starts at or before the block
func (m *MultiBucket) bucketIndex(b Block) int {
	index, found := slices.BinarySearchFunc(m.buckets, b.Addr(), compareBucketAddress)
	if !found {
		index--
	}

	if index < 0 || !m.buckets[index].Owns(b) {
		panic(errors.AssertionFailedf("block at %#x was not allocated from this multi-bucket allocator", b.Addr()))
	}

	return index
}

func (m *MultiBucket) Deallocate(b Block) {
	if b.IsNull() {
		return
	}

	bucket := m.current
	index := -1
	if !bucket.Owns(b) {
		index = m.bucketIndex(b)
		bucket = m.buckets[index]
	}

	bucket.Deallocate(b)

	if !bucket.IsEmpty() || len(m.buckets) == 1 {
		return
	}

	if index < 0 {
		index = m.bucketIndex(b)
	}

	m.buckets = slices.Delete(m.buckets, index, index+1)
	if m.current == bucket {
		m.current = m.buckets[0]
	}

	err := bucket.Destroy()
	if err != nil {
		panic(errors.Wrap(err, "failed to release an empty bucket"))
	}
}

func (m *MultiBucket) Owns(b Block) bool {
	if b.IsNull() {
		return false
	}

	index, found := slices.BinarySearchFunc(m.buckets, b.Addr(), compareBucketAddress)
	if !found {
		index--
	}
	return index >= 0 && m.buckets[index].Owns(b)
}

func (m *MultiBucket) Validate() error {
	for i, bucket := range m.buckets {
		if i > 0 && m.buckets[i-1].arena.Addr() >= bucket.arena.Addr() {
			return errors.Errorf("buckets %d and %d are out of address order", i-1, i)
		}

		err := bucket.Validate()
		if err != nil {
			return err
		}
	}

	if !slices.Contains(m.buckets, m.current) {
		return errors.New("the current bucket is not part of the multi-bucket allocator")
	}

	return nil
}

func (m *MultiBucket) AddStatistics(stats *memutils.Statistics) {
	for _, bucket := range m.buckets {
		bucket.AddStatistics(stats)
	}
}

func (m *MultiBucket) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for _, bucket := range m.buckets {
		bucket.AddDetailedStatistics(stats)
	}
}

// Destroy returns every bucket's arena to the parent allocator
func (m *MultiBucket) Destroy() error {
	memutils.DebugValidate(m)

	var err error
	remaining := m.buckets[:0]
	for _, bucket := range m.buckets {
		destroyErr := bucket.Destroy()
		if destroyErr != nil {
			err = errors.CombineErrors(err, destroyErr)
			remaining = append(remaining, bucket)
		}
	}

	m.buckets = remaining
	m.current = nil
	if len(m.buckets) > 0 {
		m.current = m.buckets[0]
	}
	return err
}

func (m *MultiBucket) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("MultiBucket")
	json.Name("SlotSize").Int(m.slotSize)
	json.Name("SlotsPerBucket").Int(m.slotsPerBucket)

	buckets := json.Name("Buckets").Array()
	defer buckets.End()

	for _, bucket := range m.buckets {
		obj := buckets.Object()
		bucket.PrintStats(&obj)
		obj.End()
	}
}
