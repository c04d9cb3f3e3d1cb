package stackconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/alloc/stackconfig"
)

const layeredStack = `
kind: synchronized
parent:
  kind: tracking
  detailed: true
  parent:
    kind: segregator
    threshold: 64
    small:
      kind: fallback
      primary:
        kind: multibucket
        slot_size: 64
        slot_count: 2
      secondary:
        kind: heap
    large:
      kind: freelist
      min: 64
      max: 128
      capacity: 4
`

func TestBuildLayeredStack(t *testing.T) {
	config, err := stackconfig.Parse([]byte(layeredStack))
	require.NoError(t, err)

	stack, err := stackconfig.Build(nil, config)
	require.NoError(t, err)

	synchronized, ok := stack.Allocator.(*alloc.Synchronized)
	require.True(t, ok)
	tracking, ok := synchronized.Parent().(*alloc.Tracking)
	require.True(t, ok)
	require.True(t, tracking.Detailed())

	// multibucket, heap, fallback, freelist, segregator, tracking, synchronized
	require.Len(t, stack.Layers(), 7)

	var blocks []alloc.Block
	for _, size := range []int{8, 63, 64, 100, 128, 500} {
		b := stack.Allocator.Allocate(size)
		require.False(t, b.IsNull())
		blocks = append(blocks, b)
	}
	require.Equal(t, 8+63+64+100+128+500, tracking.Outstanding())

	for _, b := range blocks {
		stack.Allocator.Deallocate(b)
	}
	require.Equal(t, 0, tracking.Outstanding())

	require.NoError(t, stack.Destroy())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: stack\nsize: 1024\nparent:\n  kind: pages\n"), 0o600))

	config, err := stackconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, stackconfig.KindStack, config.Kind)
	require.Equal(t, stackconfig.KindPages, config.Parent.Kind)

	stack, err := stackconfig.Build(nil, config)
	require.NoError(t, err)

	arena := stack.Allocator.(*alloc.Stack)
	require.Equal(t, 1024, arena.Remaining())

	b := stack.Allocator.Allocate(100)
	stack.Allocator.Deallocate(b)
	require.NoError(t, stack.Destroy())

	_, err = stackconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultParentIsHeap(t *testing.T) {
	config, err := stackconfig.Parse([]byte("kind: bucket\nslot_size: 16\nslot_count: 4\n"))
	require.NoError(t, err)

	stack, err := stackconfig.Build(nil, config)
	require.NoError(t, err)
	require.Len(t, stack.Layers(), 1)

	bucket := stack.Allocator.(*alloc.Bucket)
	live := bucket.Allocate(16)
	require.Error(t, stack.Destroy())

	bucket.Deallocate(live)
	require.NoError(t, bucket.Destroy())
}

func TestInvalidConfigs(t *testing.T) {
	for name, data := range map[string]string{
		"unknown kind":          "kind: arena\n",
		"missing kind":          "slot_size: 16\n",
		"negative size":         "kind: stack\nsize: -4\n",
		"bucket without slots":  "kind: bucket\nslot_size: 16\n",
		"stack without size":    "kind: stack\n",
		"inverted free list":    "kind: freelist\nmin: 64\nmax: 32\n",
		"half segregator":       "kind: segregator\nthreshold: 10\nsmall:\n  kind: heap\n",
		"heap primary":          "kind: fallback\nprimary:\n  kind: heap\nsecondary:\n  kind: heap\n",
		"heap with parent":      "kind: heap\nparent:\n  kind: heap\n",
		"tracking heap primary": "kind: fallback\nprimary:\n  kind: tracking\nsecondary:\n  kind: heap\n",
		"locked heap primary":   "kind: fallback\nprimary:\n  kind: synchronized\n  parent:\n    kind: heap\nsecondary:\n  kind: heap\n",
		"half owned segregator": "kind: fallback\nprimary:\n  kind: segregator\n  threshold: 64\n  small:\n    kind: stack\n    size: 256\n  large:\n    kind: heap\nsecondary:\n  kind: heap\n",
		"invalid nested":        "kind: tracking\nparent:\n  kind: bucket\n  slot_size: -1\n  slot_count: 1\n",
		"not yaml":              "kind: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := stackconfig.Parse([]byte(data))
			require.Error(t, err)
		})
	}

	_, err := stackconfig.Build(nil, nil)
	require.Error(t, err)
}

func TestDetailedTrackingPrimary(t *testing.T) {
	config, err := stackconfig.Parse([]byte(`
kind: fallback
primary:
  kind: tracking
  detailed: true
secondary:
  kind: heap
`))
	require.NoError(t, err)

	stack, err := stackconfig.Build(nil, config)
	require.NoError(t, err)

	tracking, ok := stack.Layers()[0].(*alloc.Tracking)
	require.True(t, ok)

	b := stack.Allocator.Allocate(40)
	require.Equal(t, 1, tracking.AllocationCount())
	stack.Allocator.Deallocate(b)
	require.Equal(t, 0, tracking.AllocationCount())
	require.NoError(t, stack.Destroy())
}
