package handle

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/alloc"
)

// Initializer is implemented by element types whose default construction is more than zeroed memory.
// Init is called on each element after its memory has been cleared.
type Initializer interface {
	Init()
}

// Finalizer is implemented by element types that need to run cleanup before their memory is returned.
// Finalize is called exactly once on each initialized element.
type Finalizer interface {
	Finalize()
}

// Cloner is implemented by element types that must not be copied bit for bit. CloneFrom is called on
// each cleared destination element with the corresponding source element.
type Cloner[T any] interface {
	CloneFrom(src *T)
}

// Scalar is the set of element types that are valid when their memory is all zeroes
type Scalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// Byte patterns written over uninitialized and released memory when InitializeAllocs is on
const (
	patternCreated   byte = 0xDC
	patternDestroyed byte = 0xEF
)

type elementInfo struct {
	size  int
	align uintptr

	initializer bool
	finalizer   bool
	cloner      bool
}

var elementInfoCache sync.Map

// infoOf describes T and panics if T cannot live in allocator memory. Allocator memory is not scanned
// by the garbage collector, so T must not contain pointers of any kind.
func infoOf[T any]() *elementInfo {
	elemType := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := elementInfoCache.Load(elemType); ok {
		return cached.(*elementInfo)
	}

	if elemType.Size() == 0 {
		panic(errors.AssertionFailedf("element type %s has no size", elemType))
	}
	if uintptr(elemType.Align()) > uintptr(alloc.MaxAlignment) {
		panic(errors.AssertionFailedf("element type %s requires %d-byte alignment, more than the %d bytes allocators provide", elemType, elemType.Align(), alloc.MaxAlignment))
	}
	if path, ok := findPointer(elemType); ok {
		panic(errors.AssertionFailedf("element type %s contains a pointer at %s and cannot be stored in allocator memory", elemType, path))
	}

	var zero *T
	_, initializer := any(zero).(Initializer)
	_, finalizer := any(zero).(Finalizer)
	_, cloner := any(zero).(Cloner[T])

	info := &elementInfo{
		size:        int(elemType.Size()),
		align:       uintptr(elemType.Align()),
		initializer: initializer,
		finalizer:   finalizer,
		cloner:      cloner,
	}

	actual, _ := elementInfoCache.LoadOrStore(elemType, info)
	return actual.(*elementInfo)
}

// findPointer returns the path to the first pointer-bearing component of the type
func findPointer(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return "", false
	case reflect.Array:
		if t.Len() == 0 {
			return "", false
		}
		path, found := findPointer(t.Elem())
		return "[]" + path, found
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			path, found := findPointer(field.Type)
			if found {
				return "." + field.Name + path, true
			}
		}
		return "", false
	default:
		return " (" + t.Kind().String() + ")", true
	}
}

// slots is an owned block of n element slots, of which the first initialized hold live elements
type slots[T any] struct {
	block       alloc.Block
	n           int
	initialized int
}

func allocateSlots[T any](ctx *Context, n int, zeroed bool) slots[T] {
	if n < 0 {
		panic(errors.AssertionFailedf("invalid element count: %d", n))
	}
	if n == 0 {
		return slots[T]{}
	}

	info := infoOf[T]()
	size := info.size * n
	if size/n != info.size {
		panic(errors.AssertionFailedf("%d elements of %d bytes overflow the address space", n, info.size))
	}

	var block alloc.Block
	if zeroed {
		block = alloc.AllocateZeroed(ctx.allocator, size)
	} else {
		block = ctx.allocator.Allocate(size)
	}
	if block.IsNull() {
		panic(outOfMemory(n, info.size))
	}

	s := slots[T]{block: block, n: n}
	if !zeroed {
		fillBlock(block, patternCreated)
	}
	return s
}

// foreignSlots describes memory owned elsewhere. Every element is initialized by its owner.
func foreignSlots[T any](data *T, n int) slots[T] {
	info := infoOf[T]()
	if data == nil || n <= 0 {
		panic(errors.AssertionFailedf("foreign memory requires data and a positive element count, got %p and %d", data, n))
	}
	if uintptr(unsafe.Pointer(data))%info.align != 0 {
		panic(errors.AssertionFailedf("foreign memory at %p is not aligned for its element type", data))
	}

	return slots[T]{
		block:       alloc.Block{Ptr: unsafe.Pointer(data), Size: info.size * n},
		n:           n,
		initialized: n,
	}
}

func (s *slots[T]) isNull() bool {
	return s.block.IsNull()
}

func (s *slots[T]) data() *T {
	return (*T)(s.block.Ptr)
}

func (s *slots[T]) slice() []T {
	if s.isNull() {
		return nil
	}
	return unsafe.Slice(s.data(), s.n)
}

// construct default-constructs every slot past the initialized prefix
func (s *slots[T]) construct() {
	info := infoOf[T]()
	elements := s.slice()
	for i := s.initialized; i < s.n; i++ {
		elements[i] = *new(T)
		if info.initializer {
			any(&elements[i]).(Initializer).Init()
		}
		s.initialized++
	}
}

// copyFrom constructs the leading len(src) slots from the matching source elements. Slots past
// len(src) stay uninitialized.
func (s *slots[T]) copyFrom(src []T) {
	if len(src) > s.n {
		panic(errors.AssertionFailedf("copying %d elements into %d slots", len(src), s.n))
	}

	info := infoOf[T]()
	elements := s.slice()
	if !info.cloner {
		copy(elements, src)
		s.initialized = len(src)
		return
	}

	for i := s.initialized; i < len(src); i++ {
		elements[i] = *new(T)
		any(&elements[i]).(Cloner[T]).CloneFrom(&src[i])
		s.initialized++
	}
}

// release finalizes the initialized prefix and returns the block to the context's allocator
func (s *slots[T]) release(ctx *Context) {
	if s.isNull() {
		return
	}

	info := infoOf[T]()
	if info.finalizer {
		elements := s.slice()
		for i := 0; i < s.initialized; i++ {
			any(&elements[i]).(Finalizer).Finalize()
		}
	}

	fillBlock(s.block, patternDestroyed)
	ctx.allocator.Deallocate(s.block)
	*s = slots[T]{}
}
