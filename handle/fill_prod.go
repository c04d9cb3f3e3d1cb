//go:build !debug_init_allocs

package handle

import "github.com/vkngwrapper/ndmem/alloc"

const (
	// InitializeAllocs causes every uninitialized allocation to be filled with a recognizable pattern,
	// and every released allocation to be overwritten with another. It is only active with the
	// debug_init_allocs build tag.
	InitializeAllocs bool = false
)

func fillBlock(block alloc.Block, pattern byte) {}
