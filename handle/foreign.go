package handle

import (
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Releasable is the owner of foreign memory adopted by NewForeign. Release is called exactly once,
// from whichever goroutine drops the last reference, and must be safe to call from any goroutine.
type Releasable interface {
	Release()
}

// ReleaseFunc adapts a function to Releasable
type ReleaseFunc func()

func (f ReleaseFunc) Release() {
	f()
}

type foreignPair struct {
	handle   unsafe.Pointer
	release  func(unsafe.Pointer)
	released atomic.Bool
}

// ForeignPair adapts an opaque handle and the function that releases it, as foreign runtimes usually
// expose them. Releasing the pair a second time panics.
func ForeignPair(handle unsafe.Pointer, release func(unsafe.Pointer)) Releasable {
	if release == nil {
		panic(errors.AssertionFailedf("a foreign pair requires a release function"))
	}
	return &foreignPair{handle: handle, release: release}
}

func (p *foreignPair) Release() {
	if !p.released.CompareAndSwap(false, true) {
		panic(errors.AssertionFailedf("foreign handle %p was released twice", p.handle))
	}
	p.release(p.handle)
}
