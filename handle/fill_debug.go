//go:build debug_init_allocs

package handle

import "github.com/vkngwrapper/ndmem/alloc"

const (
	// InitializeAllocs causes every uninitialized allocation to be filled with a recognizable pattern,
	// and every released allocation to be overwritten with another. If you suspect that uninitialized
	// or released memory is being read, you can activate this to help diagnose the issue. It impacts
	// performance and should generally be left deactivated.
	InitializeAllocs bool = true
)

func fillBlock(block alloc.Block, pattern byte) {
	data := block.Bytes()
	for i := range data {
		data[i] = pattern
	}
}
