package handle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/refcount"
)

// Exclusive owns a block of elements outright. Copying an Exclusive is a deep clone and moving it
// leaves the source null. An Exclusive can be promoted to shared ownership with Share, after which it
// holds one reference to the block and only frees it if that reference is the last.
//
// Exclusive handles must be used through a pointer and must not be copied by value.
type Exclusive[T any] struct {
	ctx   *Context
	slots slots[T]
	cell  refcount.Cell
}

var _ Handle[int] = &Exclusive[int]{}

func newExclusive[T any](ctx *Context, s slots[T]) *Exclusive[T] {
	return &Exclusive[T]{ctx: ctx, slots: s}
}

// NewExclusive allocates n default-constructed elements. A count of 0 returns a null handle without
// allocating. Allocation failure panics with an error wrapping memutils.ErrOutOfMemory.
func NewExclusive[T any](ctx *Context, n int) *Exclusive[T] {
	ctx = resolve(ctx)
	s := allocateSlots[T](ctx, n, false)
	s.construct()
	return newExclusive(ctx, s)
}

// NewExclusiveUninitialized allocates n elements without constructing them. None of the elements
// count as initialized, so no Finalize hook runs for them unless MarkInitialized is called.
func NewExclusiveUninitialized[T any](ctx *Context, n int) *Exclusive[T] {
	ctx = resolve(ctx)
	return newExclusive(ctx, allocateSlots[T](ctx, n, false))
}

// NewExclusiveZeroed allocates n zeroed elements of a numeric type
func NewExclusiveZeroed[T Scalar](ctx *Context, n int) *Exclusive[T] {
	ctx = resolve(ctx)
	s := allocateSlots[T](ctx, n, true)
	s.initialized = n
	return newExclusive(ctx, s)
}

// ExclusiveFrom allocates a copy of the provided values
func ExclusiveFrom[T any](ctx *Context, values []T) *Exclusive[T] {
	return CloneBorrowed(ctx, BorrowRaw(sliceData(values), len(values)))
}

// CloneBorrowed allocates a deep copy of the borrowed elements
func CloneBorrowed[T any](ctx *Context, b Borrowed[T]) *Exclusive[T] {
	return cloneElements(ctx, b.Slice(), b.n)
}

// cloneElements allocates n slots and constructs the leading len(src) of them from src
func cloneElements[T any](ctx *Context, src []T, n int) *Exclusive[T] {
	ctx = resolve(ctx)
	s := allocateSlots[T](ctx, n, false)
	if !s.isNull() {
		s.copyFrom(src)
	}
	return newExclusive(ctx, s)
}

func (e *Exclusive[T]) sealed() {}

func (e *Exclusive[T]) Kind() Kind { return KindExclusive }

func (e *Exclusive[T]) IsNull() bool { return e.slots.isNull() }

// Size returns the number of elements
func (e *Exclusive[T]) Size() int { return e.slots.n }

// Data returns a pointer to the first element, or nil for a null handle
func (e *Exclusive[T]) Data() *T { return e.slots.data() }

// Slice exposes the elements. The slice is only valid until the handle is destroyed or moved.
func (e *Exclusive[T]) Slice() []T { return e.slots.slice() }

// At returns a pointer to element i
func (e *Exclusive[T]) At(i int) *T { return &e.slots.slice()[i] }

// Context returns the context the handle allocates from
func (e *Exclusive[T]) Context() *Context { return e.ctx }

// Initialized returns the number of leading elements that are constructed
func (e *Exclusive[T]) Initialized() int { return e.slots.initialized }

// MarkInitialized records that the first n elements have been constructed by the caller
func (e *Exclusive[T]) MarkInitialized(n int) {
	if n < 0 || n > e.slots.n {
		panic(errors.AssertionFailedf("cannot mark %d of %d elements initialized", n, e.slots.n))
	}
	e.slots.initialized = n
}

// HasSharedMemory returns true once the handle has been promoted to shared ownership
func (e *Exclusive[T]) HasSharedMemory() bool {
	return e.cell.Load() != refcount.NoID
}

// Refcount returns the number of references to a promoted handle's block, or 0 if it was never
// promoted
func (e *Exclusive[T]) Refcount() int64 {
	id := e.cell.Load()
	if id == refcount.NoID {
		return 0
	}
	return e.ctx.table.Count(id)
}

// Borrow returns a non-owning view that remembers this handle, so that it can be promoted through
// ShareBorrowed
func (e *Exclusive[T]) Borrow() Borrowed[T] {
	return Borrowed[T]{data: e.slots.data(), n: e.slots.n, parent: e}
}

// Clone returns a deep copy allocated from the same context. Only the initialized prefix is copied;
// the clone has the same size and the same initialized count.
func (e *Exclusive[T]) Clone() *Exclusive[T] {
	return cloneElements(e.ctx, e.slots.slice()[:e.slots.initialized], e.slots.n)
}

// Move returns a new handle holding this handle's elements and id, and leaves this handle null
func (e *Exclusive[T]) Move() *Exclusive[T] {
	moved := &Exclusive[T]{ctx: e.ctx, slots: e.slots}
	moved.cell.TakeFrom(&e.cell)
	e.slots = slots[T]{}
	return moved
}

// Swap exchanges the contents of two handles
func (e *Exclusive[T]) Swap(other *Exclusive[T]) {
	if e == other {
		return
	}

	e.ctx, other.ctx = other.ctx, e.ctx
	e.slots, other.slots = other.slots, e.slots
	e.cell.Swap(&other.cell)
}

// Assign replaces this handle's elements with a deep copy of src. The previous elements are released
// only after the copy succeeded.
func (e *Exclusive[T]) Assign(src Borrowed[T]) {
	replacement := CloneBorrowed(e.ctx, src)
	e.Swap(replacement)
	replacement.Destroy()
}

// Destroy releases the handle. An unpromoted handle finalizes its elements and returns the block to
// its allocator. A promoted handle drops its reference and releases the block only if no shared
// handle still refers to it. Destroying a null handle does nothing.
func (e *Exclusive[T]) Destroy() {
	if e.slots.isNull() {
		return
	}

	id := e.cell.Take()
	if id != refcount.NoID && !e.ctx.table.Decref(id) {
		e.slots = slots[T]{}
		return
	}

	e.slots.release(e.ctx)
}
