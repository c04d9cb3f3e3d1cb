package handle

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/internal/utils"
	"github.com/vkngwrapper/ndmem/refcount"
	"golang.org/x/exp/slog"
)

// ContextCreateFlags indicate specific context behaviors to activate or deactivate
type ContextCreateFlags int32

var contextCreateFlagsMapping = utils.NewFlagStringMapping[ContextCreateFlags]()

func (f ContextCreateFlags) Register(str string) {
	contextCreateFlagsMapping.Register(f, str)
}
func (f ContextCreateFlags) String() string {
	return contextCreateFlagsMapping.FlagsToString(f)
}

const (
	// ContextExternallySynchronized ensures that the context's allocator and refcount table will not
	// be synchronized internally. The consumer must guarantee that every handle created from the
	// context is used from only one goroutine at a time or is synchronized by some other mechanism.
	ContextExternallySynchronized ContextCreateFlags = 1 << iota
)

func init() {
	ContextExternallySynchronized.Register("ContextExternallySynchronized")
}

// ContextOptions contains optional settings when creating a context
type ContextOptions struct {
	// Flags indicates specific context behaviors to activate or deactivate
	Flags ContextCreateFlags
	// Allocator is the allocator stack handles allocate from. It is wrapped in an alloc.Synchronized
	// layer by the context. When it is nil, the context builds and owns a tracking allocator over the
	// Go heap.
	Allocator alloc.Allocator
	// Table is the refcount table shared handles are counted in. When it is nil, the context builds
	// and owns a table created with TableOptions.
	Table *refcount.Table
	// TableOptions is used to build the context's own table when Table is nil
	TableOptions refcount.Options
}

// Context binds the allocator and refcount table that handles created from it use. Every handle
// remembers its context, so handles from different contexts can coexist.
type Context struct {
	logger *slog.Logger

	allocator *alloc.Synchronized
	table     *refcount.Table

	ownedAllocator alloc.Allocator
	ownsTable      bool
}

func NewContext(logger *slog.Logger, options ContextOptions) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	useMutex := options.Flags&ContextExternallySynchronized == 0
	ctx := &Context{logger: logger}

	allocator := options.Allocator
	if allocator == nil {
		tracking, err := alloc.NewTracking(logger, alloc.HeapAllocator{}, alloc.TrackingOptions{})
		if err != nil {
			return nil, errors.Wrap(err, "failed to build the default allocator")
		}
		allocator = tracking
		ctx.ownedAllocator = tracking
	}
	ctx.allocator = alloc.NewSynchronized(allocator, useMutex)

	ctx.table = options.Table
	if ctx.table == nil {
		tableOptions := options.TableOptions
		if !useMutex {
			tableOptions.Flags |= refcount.TableExternallySynchronized
		}
		ctx.table = refcount.New(logger, tableOptions)
		ctx.ownsTable = true
	}

	logger.Debug("handle context created",
		slog.String("flags", options.Flags.String()),
		slog.Bool("ownsAllocator", ctx.ownedAllocator != nil),
		slog.Bool("ownsTable", ctx.ownsTable),
	)

	return ctx, nil
}

var defaultContext struct {
	once sync.Once
	ctx  *Context
}

// Default returns the process-wide context, creating it on first use. Handles constructed with a nil
// context use it.
func Default() *Context {
	defaultContext.once.Do(func() {
		ctx, err := NewContext(nil, ContextOptions{})
		if err != nil {
			panic(errors.Wrap(err, "failed to create the default handle context"))
		}
		defaultContext.ctx = ctx
	})

	return defaultContext.ctx
}

func resolve(ctx *Context) *Context {
	if ctx == nil {
		return Default()
	}
	return ctx
}

// Allocator returns the synchronized allocator handles allocate from
func (c *Context) Allocator() alloc.Allocator {
	return c.allocator
}

// Table returns the refcount table shared handles are counted in
func (c *Context) Table() *refcount.Table {
	return c.table
}

// Destroy checks the context's own table for live references and destroys the allocator it built.
// Allocators and tables passed in through ContextOptions are left to their owner.
func (c *Context) Destroy() error {
	var err error
	if c.ownsTable {
		err = errors.CombineErrors(err, c.table.Destroy())
	}
	if c.ownedAllocator != nil {
		err = errors.CombineErrors(err, alloc.Destroy(c.ownedAllocator))
	}

	if err != nil {
		c.logger.Error("handle context destroyed with unreleased resources", slog.Any("error", err))
	}
	return err
}
