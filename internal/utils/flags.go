package utils

import (
	"fmt"
	"math/bits"
	"strings"
)

// Flags is the constraint for bitmask option types that print themselves through a FlagStringMapping
type Flags interface {
	~int32 | ~uint32
}

// FlagStringMapping holds the registered names of the individual bits of a flag type
type FlagStringMapping[T Flags] struct {
	names map[T]string
}

func NewFlagStringMapping[T Flags]() FlagStringMapping[T] {
	return FlagStringMapping[T]{names: make(map[T]string)}
}

func (m FlagStringMapping[T]) Register(flag T, name string) {
	m.names[flag] = name
}

// FlagsToString joins the names of every set bit with a pipe. Bits without a registered name are
// printed in hex, and an empty value prints as "None".
func (m FlagStringMapping[T]) FlagsToString(value T) string {
	if value == 0 {
		return "None"
	}

	var sb strings.Builder
	remaining := uint32(value)
	for remaining != 0 {
		bit := T(1) << bits.TrailingZeros32(remaining)
		remaining &^= uint32(bit)

		if sb.Len() > 0 {
			sb.WriteRune('|')
		}

		name, ok := m.names[bit]
		if !ok {
			name = fmt.Sprintf("%#x", uint32(bit))
		}
		sb.WriteString(name)
	}

	return sb.String()
}
