package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a cache geometry cannot be built.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// maxIndexOffsetBits keeps the set index and block offset within 32 bits.
const maxIndexOffsetBits = 32

// maxTotalSize bounds the number of data bytes a store may allocate.
const maxTotalSize = 1 << 30

// Config describes the geometry of a set-associative cache.
type Config struct {
	// SetBits is log2 of the number of sets.
	SetBits uint8

	// TagBits is the width of the tag. It only affects how tags are
	// displayed.
	TagBits uint8

	// BlockBits is log2 of the number of bytes in a block.
	BlockBits uint8

	// Associativity is the number of lines in each set.
	Associativity uint8

	// PrefetchWidth is the number of consecutive bytes fetched from memory
	// on a read miss. It is either 1 or 2.
	PrefetchWidth int
}

// NumSets returns 2^SetBits.
func (c Config) NumSets() uint64 {
	return 1 << c.SetBits
}

// BlockSize returns the number of bytes in a block, 2^BlockBits.
func (c Config) BlockSize() uint64 {
	return 1 << c.BlockBits
}

// TotalSize returns the number of data bytes the cache can hold.
func (c Config) TotalSize() uint64 {
	return c.NumSets() * uint64(c.Associativity) * c.BlockSize()
}

// Validate reports whether a store can be built from the configuration.
func (c Config) Validate() error {
	if c.Associativity == 0 {
		return fmt.Errorf("%w: associativity must be positive", ErrInvalidConfig)
	}

	if int(c.SetBits)+int(c.BlockBits) > maxIndexOffsetBits {
		return fmt.Errorf("%w: set bits (%d) plus block bits (%d) exceed %d",
			ErrInvalidConfig, c.SetBits, c.BlockBits, maxIndexOffsetBits)
	}

	if c.TotalSize() > maxTotalSize {
		return fmt.Errorf("%w: %d data bytes exceed the limit of %d",
			ErrInvalidConfig, c.TotalSize(), uint64(maxTotalSize))
	}

	if c.PrefetchWidth != 1 && c.PrefetchWidth != 2 {
		return fmt.Errorf("%w: prefetch width must be 1 or 2, got %d",
			ErrInvalidConfig, c.PrefetchWidth)
	}

	return nil
}

// Address is a byte address split into the fields the cache uses.
type Address struct {
	Tag    uint64
	Index  uint64
	Offset uint64
}

// Decompose splits addr into tag, set index and block offset.
func (c Config) Decompose(addr uint64) Address {
	return Address{
		Tag:    addr >> (c.SetBits + c.BlockBits),
		Index:  (addr >> c.BlockBits) & (c.NumSets() - 1),
		Offset: addr & (c.BlockSize() - 1),
	}
}

// Compose rebuilds the byte address from its fields.
func (c Config) Compose(a Address) uint64 {
	return a.Tag<<(c.SetBits+c.BlockBits) | a.Index<<c.BlockBits | a.Offset
}
