// Package metrics exports allocator statistics and refcount table occupancy to prometheus.
package metrics

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/ndmem/alloc"
	"github.com/vkngwrapper/ndmem/handle"
	"github.com/vkngwrapper/ndmem/refcount"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Collector is a prometheus.Collector reporting on named allocator stacks and refcount tables. The
// registered allocators are read while metrics are collected, so stacks used from several goroutines
// should be registered through their synchronized outer layer.
type Collector struct {
	lock       sync.Mutex
	allocators map[string]alloc.Allocator
	tables     map[string]*refcount.Table

	blocks          *prometheus.Desc
	blockBytes      *prometheus.Desc
	allocations     *prometheus.Desc
	allocationBytes *prometheus.Desc
	liveIDs         *prometheus.Desc
	slots           *prometheus.Desc
}

var _ prometheus.Collector = &Collector{}

func NewCollector(namespace string) *Collector {
	allocatorLabels := []string{"allocator"}
	tableLabels := []string{"table"}

	return &Collector{
		allocators: make(map[string]alloc.Allocator),
		tables:     make(map[string]*refcount.Table),

		blocks: prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", "blocks"),
			"Number of arenas the allocator stack has reserved", allocatorLabels, nil),
		blockBytes: prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", "block_bytes"),
			"Bytes of arena the allocator stack has reserved", allocatorLabels, nil),
		allocations: prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", "allocations"),
			"Number of blocks currently handed out by the allocator stack", allocatorLabels, nil),
		allocationBytes: prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", "allocation_bytes"),
			"Bytes currently handed out by the allocator stack", allocatorLabels, nil),
		liveIDs: prometheus.NewDesc(prometheus.BuildFQName(namespace, "refcount", "live_ids"),
			"Number of refcount ids with live references", tableLabels, nil),
		slots: prometheus.NewDesc(prometheus.BuildFQName(namespace, "refcount", "slots"),
			"Number of refcount slots reserved", tableLabels, nil),
	}
}

// AddAllocator registers an allocator stack under a name
func (c *Collector) AddAllocator(name string, a alloc.Allocator) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, exists := c.allocators[name]; exists {
		return errors.Newf("an allocator named %q is already registered", name)
	}
	c.allocators[name] = a
	return nil
}

// AddTable registers a refcount table under a name
func (c *Collector) AddTable(name string, table *refcount.Table) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, exists := c.tables[name]; exists {
		return errors.Newf("a table named %q is already registered", name)
	}
	c.tables[name] = table
	return nil
}

// AddContext registers a handle context's allocator and table under the same name
func (c *Collector) AddContext(name string, ctx *handle.Context) error {
	err := c.AddAllocator(name, ctx.Allocator())
	if err != nil {
		return err
	}
	return c.AddTable(name, ctx.Table())
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blocks
	ch <- c.blockBytes
	ch <- c.allocations
	ch <- c.allocationBytes
	ch <- c.liveIDs
	ch <- c.slots
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, name := range sortedKeys(c.allocators) {
		stats := alloc.CollectStatistics(c.allocators[name])

		ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(stats.BlockCount), name)
		ch <- prometheus.MustNewConstMetric(c.blockBytes, prometheus.GaugeValue, float64(stats.BlockBytes), name)
		ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.GaugeValue, float64(stats.AllocationCount), name)
		ch <- prometheus.MustNewConstMetric(c.allocationBytes, prometheus.GaugeValue, float64(stats.AllocationBytes), name)
	}

	for _, name := range sortedKeys(c.tables) {
		table := c.tables[name]

		ch <- prometheus.MustNewConstMetric(c.liveIDs, prometheus.GaugeValue, float64(table.Live()), name)
		ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(table.Slots()), name)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
