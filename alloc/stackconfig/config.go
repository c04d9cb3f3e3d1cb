// Package stackconfig builds allocator stacks from a declarative YAML description, for example:
//
//	kind: synchronized
//	parent:
//	  kind: tracking
//	  detailed: true
//	  parent:
//	    kind: segregator
//	    threshold: 256
//	    small:
//	      kind: multibucket
//	      slot_size: 256
//	      slot_count: 64
//	    large:
//	      kind: heap
package stackconfig

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Kinds of allocator layer a Config can describe
const (
	KindHeap         = "heap"
	KindPages        = "pages"
	KindBucket       = "bucket"
	KindMultiBucket  = "multibucket"
	KindStack        = "stack"
	KindFreeList     = "freelist"
	KindSegregator   = "segregator"
	KindFallback     = "fallback"
	KindTracking     = "tracking"
	KindSynchronized = "synchronized"
)

// Config describes one allocator layer and the layers beneath it. Only the fields that apply to the
// layer's kind are read. Layers that wrap a single parent default to the heap when it is omitted.
type Config struct {
	Kind string `yaml:"kind" validate:"required,oneof=heap pages bucket multibucket stack freelist segregator fallback tracking synchronized"`

	SlotSize  int  `yaml:"slot_size" validate:"gte=0"`
	SlotCount int  `yaml:"slot_count" validate:"gte=0"`
	Size      int  `yaml:"size" validate:"gte=0"`
	Min       int  `yaml:"min" validate:"gte=0"`
	Max       int  `yaml:"max" validate:"gte=0"`
	Capacity  int  `yaml:"capacity" validate:"gte=0"`
	Threshold int  `yaml:"threshold" validate:"gte=0"`
	Detailed  bool `yaml:"detailed"`
	Unlocked  bool `yaml:"unlocked"`

	Parent    *Config `yaml:"parent"`
	Small     *Config `yaml:"small"`
	Large     *Config `yaml:"large"`
	Primary   *Config `yaml:"primary"`
	Secondary *Config `yaml:"secondary"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// Parse decodes and validates a YAML stack description
func Parse(data []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode allocator stack config")
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Load reads and parses a YAML stack description from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read allocator stack config %s", path)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid allocator stack config %s", path)
	}
	return config, nil
}

// Validate checks the field constraints of every layer, then the parameters each kind requires
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err != nil {
		return errors.Wrap(err, "invalid allocator stack config")
	}

	return c.validateKind("")
}

func (c *Config) validateKind(path string) error {
	where := path
	if where == "" {
		where = "root"
	}

	switch c.Kind {
	case KindBucket, KindMultiBucket:
		if c.SlotSize < 1 || c.SlotCount < 1 {
			return errors.Newf("%s: %s layer requires slot_size and slot_count", where, c.Kind)
		}
	case KindStack:
		if c.Size < 1 {
			return errors.Newf("%s: stack layer requires size", where)
		}
	case KindFreeList:
		if c.Min < 1 || c.Max < c.Min {
			return errors.Newf("%s: freelist layer requires 0 < min <= max", where)
		}
	case KindSegregator:
		if c.Threshold < 1 || c.Small == nil || c.Large == nil {
			return errors.Newf("%s: segregator layer requires threshold, small and large", where)
		}
	case KindFallback:
		if c.Primary == nil || c.Secondary == nil {
			return errors.Newf("%s: fallback layer requires primary and secondary", where)
		}
		if !ownsBlocks(c.Primary) {
			return errors.Newf("%s: a %s layer cannot decide ownership and cannot be a fallback primary", where+".primary", c.Primary.Kind)
		}
	case KindHeap, KindPages:
		if c.Parent != nil {
			return errors.Newf("%s: %s layer does not take a parent", where, c.Kind)
		}
	}

	for _, child := range c.children() {
		err := child.config.validateKind(path + "." + child.name)
		if err != nil {
			return err
		}
	}
	return nil
}

type namedConfig struct {
	name   string
	config *Config
}

func (c *Config) children() []namedConfig {
	var children []namedConfig
	for _, child := range []namedConfig{
		{"parent", c.Parent},
		{"small", c.Small},
		{"large", c.Large},
		{"primary", c.Primary},
		{"secondary", c.Secondary},
	} {
		if child.config != nil {
			children = append(children, child)
		}
	}
	return children
}

// ownsBlocks reports whether the layer built from config can recognize every block it hands out.
// Wrappers only know what their parents know, and a tracking layer only keeps addresses when detailed.
func ownsBlocks(config *Config) bool {
	if config == nil {
		return false
	}

	switch config.Kind {
	case KindBucket, KindMultiBucket, KindStack:
		return true
	case KindTracking:
		return config.Detailed || ownsBlocks(config.Parent)
	case KindSynchronized:
		return ownsBlocks(config.Parent)
	case KindSegregator:
		return ownsBlocks(config.Small) && ownsBlocks(config.Large)
	case KindFallback:
		return ownsBlocks(config.Primary) && ownsBlocks(config.Secondary)
	}
	return false
}
