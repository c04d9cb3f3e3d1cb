package memutils

import "math"

// Statistics summarizes an allocator's memory. BlockCount and BlockBytes describe the arenas the
// allocator reserved from its parent (or from the platform), while AllocationCount and AllocationBytes
// describe the blocks currently handed out to consumers.
type Statistics struct {
	BlockCount      int
	AllocationCount int
	BlockBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	*s = Statistics{}
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.BlockBytes += other.BlockBytes
	s.AllocationBytes += other.AllocationBytes
}

// AddBlock records one arena of the provided size
func (s *Statistics) AddBlock(size int) {
	s.BlockCount++
	s.BlockBytes += size
}

// FreeBytes is the number of reserved arena bytes that are not currently handed out
func (s *Statistics) FreeBytes() int {
	return s.BlockBytes - s.AllocationBytes
}

// SizeRange tracks the smallest and largest size observed. An empty range has Min == math.MaxInt
// and Max == 0.
type SizeRange struct {
	Min int
	Max int
}

func (r *SizeRange) Clear() {
	r.Min = math.MaxInt
	r.Max = 0
}

func (r *SizeRange) Add(size int) {
	r.Min = min(r.Min, size)
	r.Max = max(r.Max, size)
}

func (r *SizeRange) Merge(other SizeRange) {
	r.Min = min(r.Min, other.Min)
	r.Max = max(r.Max, other.Max)
}

// DetailedStatistics extends Statistics with the shape of an arena: how its bytes are split between
// live allocations and free ranges. Call Clear before the first use.
type DetailedStatistics struct {
	Statistics
	FreeRangeCount  int
	AllocationSizes SizeRange
	FreeRangeSizes  SizeRange
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRangeCount = 0
	s.AllocationSizes.Clear()
	s.FreeRangeSizes.Clear()
}

func (s *DetailedStatistics) AddFreeRange(size int) {
	s.FreeRangeCount++
	s.FreeRangeSizes.Add(size)
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size
	s.AllocationSizes.Add(size)
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRangeCount += other.FreeRangeCount
	s.AllocationSizes.Merge(other.AllocationSizes)
	s.FreeRangeSizes.Merge(other.FreeRangeSizes)
}
