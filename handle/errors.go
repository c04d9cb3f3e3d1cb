package handle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/memutils"
)

func outOfMemory(n, elementSize int) error {
	return errors.Wrapf(memutils.ErrOutOfMemory, "failed to allocate %d elements of %d bytes", n, elementSize)
}
