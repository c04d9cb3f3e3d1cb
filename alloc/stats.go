package alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/memutils"
)

// BuildStatsString returns a JSON description of an allocator stack. Each layer that implements
// StatsPrinter describes itself and nests the layers it wraps.
func BuildStatsString(a Allocator) string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	printStats(&obj, a)
	obj.End()

	return string(writer.Bytes())
}

// CollectStatistics sums the statistics of every StatisticsSource in an allocator stack
func CollectStatistics(a Allocator) memutils.Statistics {
	var stats memutils.Statistics
	addStatistics(&stats, a)
	return stats
}

func printStats(json *jwriter.ObjectState, a Allocator) {
	printer, ok := a.(StatsPrinter)
	if !ok {
		json.Name("Type").String("Unknown")
		return
	}

	printer.PrintStats(json)
}

func printParent(json *jwriter.ObjectState, name string, parent Allocator) {
	obj := json.Name(name).Object()
	defer obj.End()

	printStats(&obj, parent)
}

func addStatistics(stats *memutils.Statistics, a Allocator) bool {
	source, ok := a.(StatisticsSource)
	if ok {
		source.AddStatistics(stats)
	}
	return ok
}
