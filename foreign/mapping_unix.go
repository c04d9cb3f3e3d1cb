//go:build unix

package foreign

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/handle"
	"golang.org/x/sys/unix"
)

// Map maps anonymous private memory for n zeroed elements of T. The mapping is unmapped when the last
// handle is destroyed.
func Map[T any](ctx *handle.Context, n int) (*handle.Shared[T], error) {
	if n < 1 {
		return nil, errors.Newf("invalid element count: %d", n)
	}

	mapped, err := unix.Mmap(-1, 0, n*layoutOf[T]().size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map memory for %d elements", n)
	}

	shared, err := FromMapping[T](ctx, mapped)
	if err != nil {
		_ = unix.Munmap(mapped)
		return nil, err
	}
	return shared, nil
}

// FromMapping adopts a region returned by mmap as elements of T. The region is unmapped when the last
// handle is destroyed; a failure to unmap panics.
func FromMapping[T any](ctx *handle.Context, mapped []byte) (*handle.Shared[T], error) {
	data, n, err := elements[T](mapped)
	if err != nil {
		return nil, errors.Wrap(err, "cannot adopt mapping")
	}

	return handle.NewForeign(ctx, data, n, handle.ReleaseFunc(func() {
		err := unix.Munmap(mapped)
		if err != nil {
			panic(errors.Wrapf(err, "failed to unmap %d bytes", len(mapped)))
		}
	})), nil
}
