package alloc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
)

func TestBuildStatsString(t *testing.T) {
	bucket, err := alloc.NewMultiBucket(alloc.HeapAllocator{}, 16, 4)
	require.NoError(t, err)

	segregator, err := alloc.NewSegregator(17, bucket, alloc.HeapAllocator{})
	require.NoError(t, err)

	tracking, err := alloc.NewTracking(nil, segregator, alloc.TrackingOptions{Detailed: true})
	require.NoError(t, err)

	synchronized := alloc.NewSynchronized(tracking, true)
	b := synchronized.Allocate(8)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(alloc.BuildStatsString(synchronized)), &stats))

	require.Equal(t, "Synchronized", stats["Type"])
	require.Equal(t, true, stats["Locked"])

	trackingStats := stats["Parent"].(map[string]any)
	require.Equal(t, "Tracking", trackingStats["Type"])
	require.Equal(t, float64(8), trackingStats["OutstandingBytes"])

	segregatorStats := trackingStats["Parent"].(map[string]any)
	require.Equal(t, "Segregator", segregatorStats["Type"])
	require.Equal(t, float64(17), segregatorStats["Threshold"])
	require.Equal(t, "Heap", segregatorStats["Large"].(map[string]any)["Type"])

	multiStats := segregatorStats["Small"].(map[string]any)
	require.Equal(t, "MultiBucket", multiStats["Type"])
	buckets := multiStats["Buckets"].([]any)
	require.Len(t, buckets, 1)
	require.Equal(t, float64(1), buckets[0].(map[string]any)["Allocations"])

	synchronized.Deallocate(b)
	require.NoError(t, tracking.Destroy())
	require.NoError(t, bucket.Destroy())
}
