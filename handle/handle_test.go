package handle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/ndmem/handle"
)

func TestBorrowedDoesNotOwn(t *testing.T) {
	ctx, tracking := newTestContext(t)

	e := handle.ExclusiveFrom(ctx, []int16{1, 2, 3})
	b := e.Borrow()
	require.Same(t, e, b.Parent())
	require.Same(t, e.Data(), b.Data())
	require.Equal(t, 3, b.Size())

	handle.Release[int16](b)
	require.Equal(t, 0, ctx.Table().Live())
	require.Equal(t, 6, tracking.Outstanding())

	// The exclusive handle is still usable
	*e.At(2) = 30
	require.Equal(t, []int16{1, 2, 30}, e.Slice())
	require.Equal(t, int16(30), *b.At(2))

	e.Destroy()
	require.Equal(t, 0, tracking.Outstanding())
}

func TestBorrowRaw(t *testing.T) {
	values := []uint32{5, 6}
	b := handle.BorrowRaw(&values[0], 2)
	require.Nil(t, b.Parent())
	require.Equal(t, values, b.Slice())

	require.True(t, handle.BorrowRaw[uint32](nil, 4).IsNull())
	require.Equal(t, 0, handle.BorrowRaw[uint32](nil, 4).Size())
	require.True(t, handle.BorrowSlice[uint32](nil).IsNull())
	require.Panics(t, func() { handle.ShareBorrowed(b) })
}

func TestShareBorrowed(t *testing.T) {
	ctx, tracking := newTestContext(t)

	e := handle.ExclusiveFrom(ctx, []int{1, 2})
	s := handle.ShareBorrowed(e.Borrow())
	require.True(t, e.HasSharedMemory())
	require.Equal(t, int64(2), s.Refcount())

	stale := e.Borrow()
	moved := e.Move()
	require.Panics(t, func() { handle.ShareBorrowed(stale) })

	moved.Destroy()
	s.Destroy()
	require.Equal(t, 0, tracking.Outstanding())
}

func TestMatchCoversEveryVariant(t *testing.T) {
	ctx, _ := newTestContext(t)

	e := handle.ExclusiveFrom(ctx, []int{1})
	s := handle.Share(e)

	describe := func(h handle.Handle[int]) string {
		return handle.Match(h,
			func(*handle.Exclusive[int]) string { return "exclusive" },
			func(*handle.Shared[int]) string { return "shared" },
			func(handle.Borrowed[int]) string { return "borrowed" },
		)
	}

	require.Equal(t, "exclusive", describe(e))
	require.Equal(t, "shared", describe(s))
	require.Equal(t, "borrowed", describe(e.Borrow()))

	require.Equal(t, handle.KindExclusive, e.Kind())
	require.Equal(t, handle.KindShared, s.Kind())
	require.Equal(t, handle.KindBorrowed, s.Borrow().Kind())
	require.Equal(t, "Shared", handle.KindShared.String())
	require.Equal(t, "Unknown", handle.Kind(0).String())

	require.Panics(t, func() {
		handle.Match[int, int](e, nil, func(*handle.Shared[int]) int { return 0 }, func(handle.Borrowed[int]) int { return 0 })
	})

	for _, h := range []handle.Handle[int]{s, e} {
		handle.Release(h)
	}
	require.Equal(t, 0, ctx.Table().Live())
}
