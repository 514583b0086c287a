// Package trace provides hooks that record the accesses served by a cache
// engine.
package trace

import (
	"log"

	"github.com/sarchlab/lfusim/datarecording"
	"github.com/sarchlab/lfusim/mem/cache"
	"github.com/sarchlab/lfusim/sim"
)

// Table names used by the DBTracer.
const (
	AccessTable   = "cache_accesses"
	EvictionTable = "cache_evictions"
)

// AccessEntry is one row of the access table.
type AccessEntry struct {
	ID        string
	RunID     string `data:"index"`
	Seq       uint64 `data:"index"`
	Kind      string
	Address   uint64
	Tag       uint64
	SetIndex  uint64 `data:"index"`
	Offset    uint64
	Way       int
	Value     uint8
	Hit       bool
	Cold      bool
	Frequency uint64
}

// EvictionEntry is one row of the eviction table.
type EvictionEntry struct {
	ID        string
	RunID     string `data:"index"`
	Seq       uint64 `data:"index"`
	SetIndex  uint64
	Way       int
	OldTag    uint64
	NewTag    uint64
	Frequency uint64
}

// A LogTracer prints every access and eviction as one line.
type LogTracer struct {
	sim.LogHookBase
}

// NewLogTracer creates a tracer that prints to logger, or to stderr if logger
// is nil.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{LogHookBase: sim.MakeLogHookBase(logger)}
}

// Func prints the access or eviction carried by ctx.
func (t *LogTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case cache.AccessInfo:
		t.Printf("%s, %s, %s, 0x%04x, tag 0x%x, set %d, way %d, value 0x%02x, freq %d\n",
			ctx.Domain.Name(),
			item.Kind,
			outcome(item),
			item.Addr,
			item.Fields.Tag,
			item.Fields.Index,
			item.Way,
			item.Value,
			item.Frequency,
		)
	case cache.EvictionInfo:
		t.Printf("%s, evict, set %d, way %d, tag 0x%x -> 0x%x, freq %d\n",
			ctx.Domain.Name(),
			item.Index,
			item.Way,
			item.OldTag,
			item.NewTag,
			item.Frequency,
		)
	}
}

func outcome(info cache.AccessInfo) string {
	switch {
	case info.Hit:
		return "hit"
	case info.Cold:
		return "cold-miss"
	default:
		return "miss"
	}
}

// A DBTracer records every access and eviction into a data recorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
	runID    string
	seq      uint64
}

// NewDBTracer creates the access and eviction tables and returns a tracer
// that fills them. Rows are tagged with runID so that several runs can share
// a database.
func NewDBTracer(recorder datarecording.DataRecorder, runID string) *DBTracer {
	t := &DBTracer{
		recorder: recorder,
		runID:    runID,
	}

	t.recorder.CreateTable(AccessTable, AccessEntry{})
	t.recorder.CreateTable(EvictionTable, EvictionEntry{})

	return t
}

// Func records the item carried by ctx.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case cache.AccessInfo:
		t.seq++
		t.recorder.InsertData(AccessTable, AccessEntry{
			ID:        sim.GetIDGenerator().Generate(),
			RunID:     t.runID,
			Seq:       t.seq,
			Kind:      item.Kind.String(),
			Address:   item.Addr,
			Tag:       item.Fields.Tag,
			SetIndex:  item.Fields.Index,
			Offset:    item.Fields.Offset,
			Way:       item.Way,
			Value:     item.Value,
			Hit:       item.Hit,
			Cold:      item.Cold,
			Frequency: item.Frequency,
		})
	case cache.EvictionInfo:
		t.recorder.InsertData(EvictionTable, EvictionEntry{
			ID:        sim.GetIDGenerator().Generate(),
			RunID:     t.runID,
			Seq:       t.seq + 1,
			SetIndex:  item.Index,
			Way:       item.Way,
			OldTag:    item.OldTag,
			NewTag:    item.NewTag,
			Frequency: item.Frequency,
		})
	}
}

// NumAccesses returns how many accesses have been recorded.
func (t *DBTracer) NumAccesses() uint64 {
	return t.seq
}
