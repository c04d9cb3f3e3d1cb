package memutils

import "github.com/cockroachdb/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// ErrOutOfMemory is the cause carried by the panic raised when an allocator cannot satisfy a
	// request for a handle, and the error returned by constructors that allocate their arena up front
	ErrOutOfMemory error = errors.New("out of memory")
	// ErrUnreleasedMemory is returned from Destroy methods of accounting allocators that still have
	// outstanding allocations
	ErrUnreleasedMemory error = errors.New("memory was not released before destruction")
	// ErrUnreleasedReference is returned from refcount.Table.Destroy when live reference-count slots remain
	ErrUnreleasedReference error = errors.New("references were not released before destruction")
)
