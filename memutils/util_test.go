package memutils_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/memutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(1, "one"))
	require.NoError(t, memutils.CheckPow2(uint(64), "sixty-four"))

	err := memutils.CheckPow2(48, "slotSize")
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
	require.ErrorContains(t, err, "slotSize is 48")

	require.Error(t, memutils.CheckPow2(0, "zero"))
}

func TestAlign(t *testing.T) {
	require.Equal(t, 0, memutils.AlignUp(0, 16))
	require.Equal(t, 16, memutils.AlignUp(1, 16))
	require.Equal(t, 16, memutils.AlignUp(16, 16))
	require.Equal(t, 32, memutils.AlignUp(17, 16))
	require.True(t, memutils.IsAligned(0x1000, 16))
	require.False(t, memutils.IsAligned(0x1008, 16))
}

func TestDetailedStatistics(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	stats.AddBlock(1024)
	stats.AddAllocation(64)
	stats.AddAllocation(256)
	stats.AddFreeRange(704)

	var other memutils.DetailedStatistics
	other.Clear()
	other.AddBlock(512)
	other.AddAllocation(32)

	stats.AddDetailedStatistics(&other)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      2,
			BlockBytes:      1536,
			AllocationCount: 3,
			AllocationBytes: 352,
		},
		FreeRangeCount:  1,
		AllocationSizes: memutils.SizeRange{Min: 32, Max: 256},
		FreeRangeSizes:  memutils.SizeRange{Min: 704, Max: 704},
	}, stats)
	require.Equal(t, 1184, stats.FreeBytes())

	stats.Clear()
	require.Equal(t, math.MaxInt, stats.AllocationSizes.Min)
}
