package refcount

import "sync/atomic"

// Cell holds a lazily assigned id. The zero value holds NoID. A Cell belongs to the handle that
// carries it and is assigned through Table.Promote, so "assign exactly once" holds even when several
// goroutines promote the same handle.
type Cell struct {
	id atomic.Uint64
}

// Load returns the cell's id, or NoID if none has been assigned
func (c *Cell) Load() ID {
	return ID(c.id.Load())
}

// Take empties the cell and returns the id it held
func (c *Cell) Take() ID {
	return ID(c.id.Swap(uint64(NoID)))
}

// TakeFrom moves the id held by src into this cell, which must be empty
func (c *Cell) TakeFrom(src *Cell) {
	if c == src {
		return
	}
	if c.Load() != NoID {
		panic("attempting to move an id into a cell that already holds one")
	}
	c.id.Store(uint64(src.Take()))
}

// Swap exchanges the ids held by the two cells
func (c *Cell) Swap(other *Cell) {
	if c == other {
		return
	}
	other.id.Store(c.id.Swap(other.id.Load()))
}

func (c *Cell) compareAndSwap(old, new ID) bool {
	return c.id.CompareAndSwap(uint64(old), uint64(new))
}
