package handle

import "unsafe"

// Borrowed is a non-owning view of elements owned elsewhere. It never allocates, deallocates or
// touches a refcount table, and it must not outlive the owner of its elements. A Borrowed taken from
// an Exclusive remembers it so the Exclusive can be promoted through ShareBorrowed.
type Borrowed[T any] struct {
	data   *T
	n      int
	parent *Exclusive[T]
}

var _ Handle[int] = Borrowed[int]{}

// BorrowRaw views n elements starting at data
func BorrowRaw[T any](data *T, n int) Borrowed[T] {
	if data == nil {
		n = 0
	}
	return Borrowed[T]{data: data, n: n}
}

// BorrowSlice views the elements of a slice
func BorrowSlice[T any](values []T) Borrowed[T] {
	return BorrowRaw(sliceData(values), len(values))
}

// sliceData returns a pointer to the first element, or nil for an empty slice
func sliceData[T any](values []T) *T {
	if len(values) == 0 {
		return nil
	}
	return unsafe.SliceData(values)
}

func (b Borrowed[T]) sealed() {}

func (b Borrowed[T]) Kind() Kind { return KindBorrowed }

func (b Borrowed[T]) IsNull() bool { return b.data == nil }

func (b Borrowed[T]) Size() int { return b.n }

func (b Borrowed[T]) Data() *T { return b.data }

func (b Borrowed[T]) Slice() []T {
	if b.data == nil {
		return nil
	}
	return unsafe.Slice(b.data, b.n)
}

func (b Borrowed[T]) At(i int) *T { return &b.Slice()[i] }

func (b Borrowed[T]) Borrow() Borrowed[T] { return b }

// Parent returns the Exclusive handle the view was taken from, or nil
func (b Borrowed[T]) Parent() *Exclusive[T] { return b.parent }
