package refcount

import "github.com/vkngwrapper/ndmem/internal/utils"

// CreateFlags indicate specific table behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = utils.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// TableExternallySynchronized ensures that the table will not be synchronized internally. The
	// consumer must guarantee that the table, and every handle counted by it, is used from only one
	// goroutine at a time or is synchronized by some other mechanism.
	TableExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	TableExternallySynchronized.Register("TableExternallySynchronized")
}

// DefaultGrowth is the number of slots the table grows by when Options.Growth is 0
const DefaultGrowth int = 64

// Options contains optional settings when creating a table
type Options struct {
	// Flags indicates specific table behaviors to activate or deactivate
	Flags CreateFlags
	// Growth is the number of slots appended whenever Get finds no free slot
	Growth int
	// InitialSize is the number of usable slots reserved up front. It defaults to Growth.
	InitialSize int
}
