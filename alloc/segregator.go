package alloc

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Segregator routes requests smaller than a byte-size threshold to one allocator and requests at or
// above the threshold to another. Deallocation is routed by the block's size, so every block must be
// returned with the size it was allocated with.
type Segregator struct {
	threshold int
	small     Allocator
	large     Allocator
}

var _ Allocator = &Segregator{}

func NewSegregator(threshold int, small, large Allocator) (*Segregator, error) {
	if threshold < 1 {
		return nil, errors.Newf("invalid segregator threshold: %d", threshold)
	}
	if small == nil || large == nil {
		return nil, errors.New("a segregator requires both a small and a large allocator")
	}

	return &Segregator{threshold: threshold, small: small, large: large}, nil
}

func (s *Segregator) Threshold() int { return s.threshold }

func (s *Segregator) route(size int) Allocator {
	if size < s.threshold {
		return s.small
	}
	return s.large
}

func (s *Segregator) Allocate(size int) Block {
	if size <= 0 {
		return Block{}
	}
	return s.route(size).Allocate(size)
}

func (s *Segregator) AllocateZeroed(size int) Block {
	if size <= 0 {
		return Block{}
	}
	return AllocateZeroed(s.route(size), size)
}

func (s *Segregator) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	s.route(b.Size).Deallocate(b)
}

// Owns reports ownership if the sub-allocator responsible for the block's size owns it
func (s *Segregator) Owns(b Block) bool {
	return !b.IsNull() && Owns(s.route(b.Size), b)
}

func (s *Segregator) AddStatistics(stats *memutils.Statistics) {
	addStatistics(stats, s.small)
	addStatistics(stats, s.large)
}

func (s *Segregator) PrintStats(json *jwriter.ObjectState) {
	json.Name("Type").String("Segregator")
	json.Name("Threshold").Int(s.threshold)

	printParent(json, "Small", s.small)
	printParent(json, "Large", s.large)
}
