package cache

import "github.com/sarchlab/lfusim/sim"

// Hook positions triggered by the Engine.
var (
	// HookPosReadHit triggers after a read finds its block in the cache.
	HookPosReadHit = &sim.HookPos{Name: "ReadHit"}

	// HookPosReadMiss triggers after a read miss has been resolved.
	HookPosReadMiss = &sim.HookPos{Name: "ReadMiss"}

	// HookPosWriteHit triggers after a write hit has been written through.
	HookPosWriteHit = &sim.HookPos{Name: "WriteHit"}

	// HookPosWriteMiss triggers after a write miss has been written through.
	HookPosWriteMiss = &sim.HookPos{Name: "WriteMiss"}

	// HookPosEvict triggers when a valid line is replaced by another block.
	HookPosEvict = &sim.HookPos{Name: "Evict"}
)

// AccessKind tells reads and writes apart.
type AccessKind int

// Access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "unknown"
	}
}

// AccessInfo is the hook item of the read and write hook positions.
type AccessInfo struct {
	Kind AccessKind

	// Addr is the byte address that was accessed and Fields its
	// decomposition.
	Addr   uint64
	Fields Address

	// Way is the line of the set that served the access.
	Way int

	// Value is the byte returned by a read or stored by a write.
	Value byte

	Hit bool

	// Cold is set on misses that filled a line which had never been used.
	Cold bool

	// Frequency is the frequency of the line after the access.
	Frequency uint64
}

// EvictionInfo is the hook item of HookPosEvict.
type EvictionInfo struct {
	Index     uint64
	Way       int
	OldTag    uint64
	NewTag    uint64
	Frequency uint64
}
