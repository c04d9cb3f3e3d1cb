package handle

import "github.com/cockroachdb/errors"

// Kind names the ownership variant of a handle
type Kind uint8

const (
	KindExclusive Kind = iota + 1
	KindShared
	KindBorrowed
)

var kindMapping = map[Kind]string{
	KindExclusive: "Exclusive",
	KindShared:    "Shared",
	KindBorrowed:  "Borrowed",
}

func (k Kind) String() string {
	str, ok := kindMapping[k]
	if !ok {
		return "Unknown"
	}
	return str
}

// Handle is implemented by *Exclusive, *Shared and Borrowed and by nothing else. Code that needs to
// treat the variants differently should go through Match, which requires a case for each.
type Handle[T any] interface {
	Kind() Kind
	IsNull() bool
	Size() int
	Data() *T
	Slice() []T
	Borrow() Borrowed[T]

	sealed()
}

// Match calls the function for the handle's variant and returns its result. Every function must be
// provided.
func Match[T, R any](h Handle[T],
	onExclusive func(*Exclusive[T]) R,
	onShared func(*Shared[T]) R,
	onBorrowed func(Borrowed[T]) R,
) R {
	if onExclusive == nil || onShared == nil || onBorrowed == nil {
		panic(errors.AssertionFailedf("Match requires a function for every handle variant"))
	}

	switch typed := h.(type) {
	case *Exclusive[T]:
		return onExclusive(typed)
	case *Shared[T]:
		return onShared(typed)
	case Borrowed[T]:
		return onBorrowed(typed)
	default:
		panic(errors.AssertionFailedf("unknown handle variant %T", h))
	}
}

// Release destroys an owning handle. Borrowed handles own nothing, so releasing one does nothing.
func Release[T any](h Handle[T]) {
	Match(h,
		func(e *Exclusive[T]) struct{} { e.Destroy(); return struct{}{} },
		func(s *Shared[T]) struct{} { s.Destroy(); return struct{}{} },
		func(Borrowed[T]) struct{} { return struct{}{} },
	)
}
