package alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/internal/utils"
	"github.com/vkngwrapper/ndmem/memutils"
)

// Synchronized serializes every call into the wrapped allocator behind one lock. It is meant to be
// the outermost layer of a stack shared between goroutines; the layers beneath it need no locking of
// their own.
type Synchronized struct {
	lock   utils.OptionalLock
	parent Allocator
}

var _ OwningAllocator = &Synchronized{}

// NewSynchronized wraps the parent allocator. When useMutex is false the wrapper forwards calls
// without locking, for stacks that are externally synchronized.
func NewSynchronized(parent Allocator, useMutex bool) *Synchronized {
	s := &Synchronized{parent: parent}
	s.lock.Init(useMutex)
	return s
}

// Parent returns the wrapped allocator
func (s *Synchronized) Parent() Allocator { return s.parent }

func (s *Synchronized) Allocate(size int) Block {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.parent.Allocate(size)
}

func (s *Synchronized) AllocateZeroed(size int) Block {
	s.lock.Lock()
	defer s.lock.Unlock()

	return AllocateZeroed(s.parent, size)
}

func (s *Synchronized) Deallocate(b Block) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.parent.Deallocate(b)
}

func (s *Synchronized) Owns(b Block) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return Owns(s.parent, b)
}

func (s *Synchronized) AddStatistics(stats *memutils.Statistics) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	addStatistics(stats, s.parent)
}

func (s *Synchronized) PrintStats(json *jwriter.ObjectState) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	json.Name("Type").String("Synchronized")
	json.Name("Locked").Bool(s.lock.Enabled())

	printParent(json, "Parent", s.parent)
}
