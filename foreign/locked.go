package foreign

import (
	"github.com/awnumar/memguard"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/handle"
)

// FromLockedBuffer adopts the contents of a memguard buffer as elements of T. The buffer stays owned
// by memguard: it is destroyed, which wipes and unlocks its pages, when the last handle is destroyed.
func FromLockedBuffer[T any](ctx *handle.Context, buf *memguard.LockedBuffer) (*handle.Shared[T], error) {
	if buf == nil || !buf.IsAlive() {
		return nil, errors.New("locked buffer has already been destroyed")
	}

	data, n, err := elements[T](buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "cannot adopt locked buffer")
	}

	return handle.NewForeign(ctx, data, n, handle.ReleaseFunc(buf.Destroy)), nil
}

// NewLocked allocates n zeroed elements in mlocked memory guarded by memguard
func NewLocked[T any](ctx *handle.Context, n int) (*handle.Shared[T], error) {
	if n < 1 {
		return nil, errors.Newf("invalid element count: %d", n)
	}

	buf := memguard.NewBuffer(n * layoutOf[T]().size)
	if !buf.IsAlive() {
		return nil, errors.Newf("failed to allocate a locked buffer for %d elements", n)
	}
	buf.Melt()

	shared, err := FromLockedBuffer[T](ctx, buf)
	if err != nil {
		buf.Destroy()
		return nil, err
	}
	return shared, nil
}
