package refcount

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/ndmem/internal/utils"
	"github.com/vkngwrapper/ndmem/memutils"
	"golang.org/x/exp/slog"
)

// ID identifies one slot of a Table. NoID is never issued and means "not shared".
type ID uint64

const NoID ID = 0

// Table maps small integer ids to reference counters. Ids are issued by Get with a count of 1 and
// recycled, first fit, once Decref brings their count back to zero. The table only grows, so an
// issued id stays valid for the lifetime of the table.
//
// Every mutating operation runs under one mutex unless the table was created with
// TableExternallySynchronized.
type Table struct {
	logger *slog.Logger
	lock   utils.OptionalLock
	growth int

	// Slot 0 is reserved for NoID and always holds 0
	counts []int64
	live   int
}

func New(logger *slog.Logger, options Options) *Table {
	if logger == nil {
		logger = slog.Default()
	}

	growth := options.Growth
	if growth <= 0 {
		growth = DefaultGrowth
	}

	initialSize := options.InitialSize
	if initialSize <= 0 {
		initialSize = growth
	}

	t := &Table{
		logger: logger,
		growth: growth,
		counts: make([]int64, initialSize+1),
	}
	t.lock.Init(options.Flags&TableExternallySynchronized == 0)

	logger.Debug("refcount table created",
		slog.Int("slots", initialSize),
		slog.Int("growth", growth),
		slog.String("flags", options.Flags.String()),
	)

	return t
}

// Get issues an unused id with a count of 1
func (t *Table) Get() ID {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.getLocked()
}

func (t *Table) getLocked() ID {
	for index := 1; index < len(t.counts); index++ {
		if t.counts[index] == 0 {
			t.counts[index] = 1
			t.live++
			return ID(index)
		}
	}

	index := len(t.counts)
	t.counts = append(t.counts, make([]int64, t.growth)...)
	t.counts[index] = 1
	t.live++

	t.logger.Debug("refcount table grown", slog.Int("slots", len(t.counts)-1))
	return ID(index)
}

func (t *Table) checkLive(id ID, operation string) {
	if id == NoID {
		panic(errors.AssertionFailedf("%s called with NoID", operation))
	}
	if uint64(id) >= uint64(len(t.counts)) {
		panic(errors.AssertionFailedf("%s called with id %d, which was never issued", operation, id))
	}
	if t.counts[id] <= 0 {
		panic(errors.AssertionFailedf("%s called with id %d, which has no live references", operation, id))
	}
}

// Incref adds a reference to a live id
func (t *Table) Incref(id ID) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.increfLocked(id)
}

func (t *Table) increfLocked(id ID) {
	t.checkLive(id, "Incref")
	if t.counts[id] == math.MaxInt64 {
		panic(errors.AssertionFailedf("reference count of id %d overflowed", id))
	}

	t.counts[id]++
}

// Decref removes a reference from a live id. It returns true when the count reached zero, in which
// case the id has been recycled and the caller is responsible for releasing whatever it counted.
func (t *Table) Decref(id ID) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.decrefLocked(id)
}

func (t *Table) decrefLocked(id ID) bool {
	t.checkLive(id, "Decref")

	t.counts[id]--
	if t.counts[id] > 0 {
		return false
	}

	t.live--
	return true
}

// Count returns the current count of an id, or 0 if the id is not live
func (t *Table) Count(id ID) int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if id == NoID || uint64(id) >= uint64(len(t.counts)) {
		return 0
	}
	return t.counts[id]
}

// Live returns the number of ids with a non-zero count
func (t *Table) Live() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.live
}

// Slots returns the number of usable slots currently reserved
func (t *Table) Slots() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.counts) - 1
}

// Promote assigns an id to the cell if it has none, with a count of 1 for the cell's owner, and then
// adds one reference for the caller. Concurrent promotions of one cell agree on a single id.
func (t *Table) Promote(cell *Cell) ID {
	t.lock.Lock()
	defer t.lock.Unlock()

	id := t.assignLocked(cell)
	t.increfLocked(id)
	return id
}

// Claim takes the cell's id away from it, assigning a fresh one with a count of 1 first if the cell
// has none. The cell's reference now belongs to the caller and the cell is left empty.
func (t *Table) Claim(cell *Cell) ID {
	t.lock.Lock()
	defer t.lock.Unlock()

	id := cell.Take()
	if id == NoID {
		id = t.getLocked()
	}
	return id
}

func (t *Table) assignLocked(cell *Cell) ID {
	id := cell.Load()
	if id != NoID {
		return id
	}

	id = t.getLocked()
	if !cell.compareAndSwap(NoID, id) {
		// The cell is only written under the table lock, except by Take
		t.decrefLocked(id)
		id = cell.Load()
		if id == NoID {
			panic(errors.AssertionFailedf("cell was emptied while being promoted"))
		}
	}

	return id
}

func (t *Table) Validate() error {
	if len(t.counts) == 0 || t.counts[0] != 0 {
		return errors.New("the reserved slot of the refcount table is in use")
	}

	live := 0
	for index, count := range t.counts {
		if count < 0 {
			return errors.Errorf("id %d has a negative count: %d", index, count)
		}
		if count > 0 {
			live++
		}
	}

	if live != t.live {
		return errors.Errorf("refcount table counts %d live ids but %d slots are in use", t.live, live)
	}

	return nil
}

// Destroy checks that every slot has been released. Each leaked id is logged, and the returned error
// wraps memutils.ErrUnreleasedReference. In builds with the debug_ndmem tag a leak panics instead.
//
// A non-nil error means some handle still refers to a slot of this table. Callers must treat it as
// fatal: the memory behind those ids is never released.
func (t *Table) Destroy() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	memutils.DebugValidate(t)

	if t.live == 0 {
		return nil
	}

	for index, count := range t.counts {
		if count == 0 {
			continue
		}

		t.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED REFERENCE] live id",
			slog.Int("id", index),
			slog.Int64("count", count),
		)
	}

	err := errors.Wrapf(memutils.ErrUnreleasedReference, "%d ids are still live", t.live)
	memutils.DebugFatal(err)
	return err
}

// BuildStatsString returns a JSON description of the table and every live id
func (t *Table) BuildStatsString() string {
	t.lock.RLock()
	defer t.lock.RUnlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()
	obj.Name("Slots").Int(len(t.counts) - 1)
	obj.Name("Growth").Int(t.growth)
	obj.Name("Live").Int(t.live)

	ids := obj.Name("Ids").Array()
	for index, count := range t.counts {
		if count == 0 {
			continue
		}

		idObj := ids.Object()
		idObj.Name("Id").Int(index)
		idObj.Name("Count").Int(int(count))
		idObj.End()
	}
	ids.End()

	obj.End()
	return string(writer.Bytes())
}
