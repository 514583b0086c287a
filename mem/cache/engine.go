package cache

import (
	"github.com/sarchlab/lfusim/mem"
	"github.com/sarchlab/lfusim/sim"
)

// Statistics counts what the engine has done since it was created or last
// reset.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	ColdMisses uint64
	Evictions  uint64
}

// HitRate returns the fraction of accesses that hit, or 0 before the first
// access.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Engine routes byte reads and writes through a Store. Writes go through to
// the backing memory immediately.
type Engine struct {
	sim.HookableBase
	sim.NamedBase

	store        *Store
	victimFinder VictimFinder
	stats        Statistics
}

// NewEngine creates an engine that replaces lines of store with the LFU
// policy.
func NewEngine(name string, store *Store) *Engine {
	return &Engine{
		NamedBase:    sim.MakeNamedBase(name),
		store:        store,
		victimFinder: NewLFUVictimFinder(),
	}
}

// Store returns the store the engine works on.
func (e *Engine) Store() *Store {
	return e.store
}

// Stats returns a copy of the access counters.
func (e *Engine) Stats() Statistics {
	return e.stats
}

// ResetStats clears the access counters.
func (e *Engine) ResetStats() {
	e.stats = Statistics{}
}

// Reset invalidates the whole store and clears the counters.
func (e *Engine) Reset() {
	e.store.Reset()
	e.ResetStats()
}

// Read returns the byte at addr as observed through the cache.
//
// A hit returns the cached byte without consulting memory. A miss fetches
// from memory and installs the byte, either in the first invalid line of the
// set or in the LFU victim.
func (e *Engine) Read(m mem.Memory, addr int64) (byte, error) {
	if err := mem.CheckAddress(m, addr); err != nil {
		return 0, err
	}

	config := e.store.config
	fields := config.Decompose(uint64(addr))
	set := e.store.Set(fields.Index)

	if way, hit := set.Lookup(fields.Tag); hit {
		return e.readHit(set, way, uint64(addr), fields), nil
	}

	fetched, err := e.fetch(m, uint64(addr), fields)
	if err != nil {
		return 0, err
	}

	e.stats.Reads++
	e.stats.Misses++

	cold := false
	way := set.FirstInvalid()

	if way >= 0 {
		cold = true
		e.stats.ColdMisses++
		e.fillInvalid(set, way, fields)
	} else {
		way = e.evict(set, fields, fetched[0])
	}

	line := &set.Lines[way]
	for i, b := range fetched {
		line.Block[fields.Offset+uint64(i)] = b
	}

	e.invokeAccessHook(HookPosReadMiss, AccessInfo{
		Kind:      AccessRead,
		Addr:      uint64(addr),
		Fields:    fields,
		Way:       way,
		Value:     fetched[0],
		Cold:      cold,
		Frequency: line.Frequency,
	})

	return fetched[0], nil
}

func (e *Engine) readHit(set *Set, way int, addr uint64, fields Address) byte {
	line := &set.Lines[way]
	line.Frequency++
	value := line.Block[fields.Offset]

	e.stats.Reads++
	e.stats.Hits++

	e.invokeAccessHook(HookPosReadHit, AccessInfo{
		Kind:      AccessRead,
		Addr:      addr,
		Fields:    fields,
		Way:       way,
		Value:     value,
		Hit:       true,
		Frequency: line.Frequency,
	})

	return value
}

// fetch loads the requested byte and, with a prefetch width of 2, the byte
// after it when that byte belongs to the same block. A width-2 fetch needs
// addr+1 to exist in memory even when it falls in the next block.
func (e *Engine) fetch(m mem.Memory, addr uint64, fields Address) ([]byte, error) {
	prefetch := e.store.config.PrefetchWidth == 2
	if prefetch {
		if err := mem.CheckAddress(m, int64(addr+1)); err != nil {
			return nil, err
		}
	}

	value, err := m.Load(addr)
	if err != nil {
		return nil, err
	}

	fetched := []byte{value}

	if !prefetch || fields.Offset+1 >= e.store.config.BlockSize() {
		return fetched, nil
	}

	next, err := m.Load(addr + 1)
	if err != nil {
		return nil, err
	}

	return append(fetched, next), nil
}

func (e *Engine) fillInvalid(set *Set, way int, fields Address) {
	line := &set.Lines[way]
	line.Valid = true
	line.Frequency = 1
	line.Tag = fields.Tag
	clear(line.Block)
}

// evict installs value into the LFU victim of the set and returns its way.
// The victim keeps counting from its old frequency and the rest of its block
// is left as it was.
func (e *Engine) evict(set *Set, fields Address, value byte) int {
	way := e.victimFinder.FindVictim(set)
	line := &set.Lines[way]

	wasValid := line.Valid
	oldTag := line.Tag

	line.Valid = true
	line.Frequency++
	line.Tag = fields.Tag
	line.Block[fields.Offset] = value

	if !wasValid {
		return way
	}

	e.stats.Evictions++

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosEvict,
			Item: EvictionInfo{
				Index:     fields.Index,
				Way:       way,
				OldTag:    oldTag,
				NewTag:    fields.Tag,
				Frequency: line.Frequency,
			},
		})
	}

	return way
}

// Write stores value at addr in the cache and in memory.
func (e *Engine) Write(m mem.Memory, addr int64, value byte) error {
	if err := mem.CheckAddress(m, addr); err != nil {
		return err
	}

	fields := e.store.config.Decompose(uint64(addr))
	set := e.store.Set(fields.Index)

	e.stats.Writes++

	info := AccessInfo{
		Kind:   AccessWrite,
		Addr:   uint64(addr),
		Fields: fields,
		Value:  value,
	}
	pos := HookPosWriteMiss

	if way, hit := set.Lookup(fields.Tag); hit {
		line := &set.Lines[way]
		line.Frequency++
		line.Block[fields.Offset] = value

		e.stats.Hits++
		info.Way = way
		info.Hit = true
		pos = HookPosWriteHit
	} else {
		info.Cold = set.FirstInvalid() >= 0
		info.Way = e.evict(set, fields, value)

		e.stats.Misses++
		if info.Cold {
			e.stats.ColdMisses++
		}
	}

	if err := m.Store(uint64(addr), value); err != nil {
		return err
	}

	info.Frequency = set.Lines[info.Way].Frequency
	e.invokeAccessHook(pos, info)

	return nil
}

func (e *Engine) invokeAccessHook(pos *sim.HookPos, info AccessInfo) {
	if e.NumHooks() == 0 {
		return
	}

	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    pos,
		Item:   info,
	})
}
