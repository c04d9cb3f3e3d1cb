package handle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/handle"
)

func newTestContext(t *testing.T) (*handle.Context, *alloc.Tracking) {
	tracking, err := alloc.NewTracking(nil, alloc.HeapAllocator{}, alloc.TrackingOptions{Detailed: true})
	require.NoError(t, err)

	ctx, err := handle.NewContext(nil, handle.ContextOptions{Allocator: tracking})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, ctx.Destroy())
		require.NoError(t, tracking.Destroy())
	})
	return ctx, tracking
}

func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()

	f()
	return nil
}
