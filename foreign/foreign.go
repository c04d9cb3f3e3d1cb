// Package foreign adopts memory owned by other runtimes into shared handles. The memory is released
// through its owner, never through a handle context's allocator, once the last handle to it is
// destroyed.
package foreign

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

type layout struct {
	size  int
	align uintptr
}

func layoutOf[T any]() layout {
	var zero T
	return layout{size: int(unsafe.Sizeof(zero)), align: unsafe.Alignof(zero)}
}

// elements checks that a byte region holds a whole, aligned number of T and returns its first element
// and the element count
func elements[T any](data []byte) (*T, int, error) {
	l := layoutOf[T]()
	if l.size == 0 {
		return nil, 0, errors.New("element type has no size")
	}
	if len(data) == 0 {
		return nil, 0, errors.New("foreign region is empty")
	}
	if len(data)%l.size != 0 {
		return nil, 0, errors.Newf("foreign region of %d bytes does not hold a whole number of %d-byte elements", len(data), l.size)
	}

	first := unsafe.Pointer(unsafe.SliceData(data))
	if uintptr(first)%l.align != 0 {
		return nil, 0, errors.Newf("foreign region at %p is not aligned to %d bytes", first, l.align)
	}

	return (*T)(first), len(data) / l.size, nil
}
