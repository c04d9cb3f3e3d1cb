package stackconfig

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/ndmem/alloc"
	"golang.org/x/exp/slog"
)

// Stack is an allocator stack built from a Config. Allocator is the outermost layer.
type Stack struct {
	Allocator alloc.Allocator

	// Inner layers first
	layers []alloc.Allocator
}

// Layers returns every layer of the stack, inner layers first
func (s *Stack) Layers() []alloc.Allocator {
	return s.layers
}

// Destroy destroys every layer, outermost first. Every layer is attempted even if one fails, and the
// failures are combined into the returned error.
func (s *Stack) Destroy() error {
	var err error
	for i := len(s.layers) - 1; i >= 0; i-- {
		err = errors.CombineErrors(err, alloc.Destroy(s.layers[i]))
	}
	s.layers = nil
	s.Allocator = nil
	return err
}

// Build validates the config and constructs the allocator stack it describes. Tracking layers log
// through the provided logger.
func Build(logger *slog.Logger, config *Config) (*Stack, error) {
	if config == nil {
		return nil, errors.New("no allocator stack config was provided")
	}
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	builder := stackBuilder{logger: logger}
	top, err := builder.build(config)
	if err != nil {
		destroyErr := (&Stack{layers: builder.layers}).Destroy()
		if destroyErr != nil {
			logger.Error("failed to destroy partially built allocator stack", slog.Any("error", destroyErr))
		}
		return nil, err
	}

	return &Stack{Allocator: top, layers: builder.layers}, nil
}

type stackBuilder struct {
	logger *slog.Logger
	layers []alloc.Allocator
}

func (b *stackBuilder) parent(config *Config) (alloc.Allocator, error) {
	if config == nil {
		return alloc.HeapAllocator{}, nil
	}
	return b.build(config)
}

func (b *stackBuilder) build(config *Config) (alloc.Allocator, error) {
	layer, err := b.buildLayer(config)
	if err != nil {
		return nil, err
	}

	b.layers = append(b.layers, layer)
	return layer, nil
}

func (b *stackBuilder) buildLayer(config *Config) (alloc.Allocator, error) {
	switch config.Kind {
	case KindHeap:
		return alloc.HeapAllocator{}, nil
	case KindPages:
		return alloc.PageAllocator{}, nil
	case KindSegregator:
		small, err := b.build(config.Small)
		if err != nil {
			return nil, err
		}
		large, err := b.build(config.Large)
		if err != nil {
			return nil, err
		}
		return alloc.NewSegregator(config.Threshold, small, large)
	case KindFallback:
		primary, err := b.build(config.Primary)
		if err != nil {
			return nil, err
		}
		owningPrimary, ok := primary.(alloc.OwningAllocator)
		if !ok {
			return nil, errors.Newf("a %s layer cannot be a fallback primary", config.Primary.Kind)
		}
		secondary, err := b.build(config.Secondary)
		if err != nil {
			return nil, err
		}
		return alloc.NewFallback(owningPrimary, secondary)
	}

	parent, err := b.parent(config.Parent)
	if err != nil {
		return nil, err
	}

	switch config.Kind {
	case KindBucket:
		return alloc.NewBucket(parent, config.SlotSize, config.SlotCount)
	case KindMultiBucket:
		return alloc.NewMultiBucket(parent, config.SlotSize, config.SlotCount)
	case KindStack:
		return alloc.NewStack(parent, config.Size)
	case KindFreeList:
		return alloc.NewFreeList(parent, alloc.FreeListOptions{
			Min:      config.Min,
			Max:      config.Max,
			Capacity: config.Capacity,
		})
	case KindTracking:
		return alloc.NewTracking(b.logger, parent, alloc.TrackingOptions{Detailed: config.Detailed})
	case KindSynchronized:
		return alloc.NewSynchronized(parent, !config.Unlocked), nil
	}

	return nil, errors.AssertionFailedf("unhandled allocator kind %q", config.Kind)
}
