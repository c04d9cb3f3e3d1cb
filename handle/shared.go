package handle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/refcount"
)

// Shared is a reference-counted handle. Every copy made with Clone holds one reference to the same
// elements, and the copy whose Destroy drops the last reference releases them: through the foreign
// owner's Release if the elements were adopted with NewForeign, or by finalizing them and returning
// the block to the context's allocator otherwise.
//
// A Shared may be read and written from several goroutines at once; keeping concurrent element
// access race-free is up to the caller.
type Shared[T any] struct {
	ctx   *Context
	slots slots[T]
	id    refcount.ID
	owner Releasable
}

var _ Handle[int] = &Shared[int]{}

// Share promotes an Exclusive handle. The first promotion assigns the Exclusive an id, which it keeps
// along with one reference, and each promotion adds one reference for the returned handle. Sharing a
// null handle returns a null handle.
func Share[T any](e *Exclusive[T]) *Shared[T] {
	if e.IsNull() {
		return &Shared[T]{ctx: e.ctx}
	}

	id := e.ctx.table.Promote(&e.cell)
	return &Shared[T]{ctx: e.ctx, slots: e.slots, id: id}
}

// IntoShared converts an Exclusive handle into a Shared one and leaves the Exclusive null. The
// Exclusive's reference, or a fresh one if it was never promoted, moves to the returned handle.
func IntoShared[T any](e *Exclusive[T]) *Shared[T] {
	if e.IsNull() {
		return &Shared[T]{ctx: e.ctx}
	}

	id := e.ctx.table.Claim(&e.cell)
	s := &Shared[T]{ctx: e.ctx, slots: e.slots, id: id}
	e.slots = slots[T]{}
	return s
}

// ShareBorrowed promotes the Exclusive handle a Borrowed view was taken from
func ShareBorrowed[T any](b Borrowed[T]) *Shared[T] {
	if b.parent == nil {
		panic(errors.AssertionFailedf("borrowed handle was not taken from an exclusive handle and cannot be shared"))
	}
	if b.parent.Data() != b.data {
		panic(errors.AssertionFailedf("borrowed handle no longer views the elements of its exclusive handle"))
	}

	return Share(b.parent)
}

// NewForeign adopts n initialized elements at data that are owned by another runtime. The handle
// takes a fresh reference and does nothing else; when the last reference is dropped owner.Release is
// called exactly once, and no element is finalized or deallocated.
func NewForeign[T any](ctx *Context, data *T, n int, owner Releasable) *Shared[T] {
	ctx = resolve(ctx)
	if owner == nil {
		panic(errors.AssertionFailedf("foreign memory requires an owner to release it"))
	}

	s := foreignSlots(data, n)
	return &Shared[T]{ctx: ctx, slots: s, id: ctx.table.Get(), owner: owner}
}

func (s *Shared[T]) sealed() {}

func (s *Shared[T]) Kind() Kind { return KindShared }

func (s *Shared[T]) IsNull() bool { return s.slots.isNull() }

func (s *Shared[T]) Size() int { return s.slots.n }

func (s *Shared[T]) Data() *T { return s.slots.data() }

// Slice exposes the elements. The slice is only valid until this handle is destroyed or moved.
func (s *Shared[T]) Slice() []T { return s.slots.slice() }

func (s *Shared[T]) At(i int) *T { return &s.slots.slice()[i] }

func (s *Shared[T]) Context() *Context { return s.ctx }

// ID returns the refcount id of the elements, or refcount.NoID for a null handle
func (s *Shared[T]) ID() refcount.ID { return s.id }

// HasSharedMemory returns true for every handle that is not null
func (s *Shared[T]) HasSharedMemory() bool { return s.id != refcount.NoID }

// IsForeign returns true if the elements are owned by another runtime
func (s *Shared[T]) IsForeign() bool { return s.owner != nil }

// Refcount returns the number of live references to the elements
func (s *Shared[T]) Refcount() int64 {
	if s.id == refcount.NoID {
		return 0
	}
	return s.ctx.table.Count(s.id)
}

func (s *Shared[T]) Borrow() Borrowed[T] {
	return Borrowed[T]{data: s.slots.data(), n: s.slots.n}
}

// Clone returns another handle to the same elements, adding one reference
func (s *Shared[T]) Clone() *Shared[T] {
	if s.id != refcount.NoID {
		s.ctx.table.Incref(s.id)
	}
	return &Shared[T]{ctx: s.ctx, slots: s.slots, id: s.id, owner: s.owner}
}

// Move returns a new handle holding this handle's reference and leaves this handle null
func (s *Shared[T]) Move() *Shared[T] {
	moved := *s
	*s = Shared[T]{ctx: s.ctx}
	return &moved
}

// Swap exchanges the contents of two handles
func (s *Shared[T]) Swap(other *Shared[T]) {
	*s, *other = *other, *s
}

// Destroy drops this handle's reference and leaves it null. Destroying a null handle does nothing.
func (s *Shared[T]) Destroy() {
	if s.id == refcount.NoID {
		return
	}

	released := *s
	*s = Shared[T]{ctx: released.ctx}

	if !released.ctx.table.Decref(released.id) {
		return
	}

	if released.owner != nil {
		released.owner.Release()
		return
	}

	released.slots.release(released.ctx)
}
