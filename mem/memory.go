// Package mem provides the backing memories that sit behind the simulated
// cache.
package mem

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when an address falls outside of a memory.
var ErrOutOfBounds = errors.New("address out of bounds")

// A Memory is a byte-addressable backing store. The cache never owns the
// memory; it only loads and stores single bytes by address.
type Memory interface {
	// Capacity returns the number of addressable bytes.
	Capacity() uint64

	// Load returns the byte at addr.
	Load(addr uint64) (byte, error)

	// Store overwrites the byte at addr.
	Store(addr uint64, value byte) error
}

// CheckAddress verifies that addr can be accessed in m.
func CheckAddress(m Memory, addr int64) error {
	if addr < 0 || uint64(addr) >= m.Capacity() {
		return fmt.Errorf("%w: 0x%x, capacity %d", ErrOutOfBounds, addr, m.Capacity())
	}

	return nil
}

// Bytes uses a plain byte slice as memory.
type Bytes []byte

// Capacity returns the length of the slice.
func (b Bytes) Capacity() uint64 {
	return uint64(len(b))
}

// Load returns b[addr].
func (b Bytes) Load(addr uint64) (byte, error) {
	if addr >= b.Capacity() {
		return 0, fmt.Errorf("%w: 0x%x, capacity %d", ErrOutOfBounds, addr, len(b))
	}

	return b[addr], nil
}

// Store sets b[addr] to value.
func (b Bytes) Store(addr uint64, value byte) error {
	if addr >= b.Capacity() {
		return fmt.Errorf("%w: 0x%x, capacity %d", ErrOutOfBounds, addr, len(b))
	}

	b[addr] = value

	return nil
}
