package mem

import (
	"fmt"
)

// Units used to describe memory sizes.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// A Storage is a large, sparsely populated memory.
//
// The storage manages its data in units, similar to pages in memory
// management. Units that are never touched by Read or Write are never
// allocated and read as zero.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity.
func NewStorage(capacity uint64) *Storage {
	return NewStorageWithUnitSize(capacity, 4*KB)
}

// NewStorageWithUnitSize creates a storage object whose data is allocated in
// units of unitSize bytes.
func NewStorageWithUnitSize(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("unit size must be positive")
	}

	return &Storage{
		unitSize: unitSize,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// NumAllocatedUnits returns how many units have been touched so far.
func (s *Storage) NumAllocatedUnits() int {
	return len(s.data)
}

func (s *Storage) unit(addr uint64) ([]byte, uint64, error) {
	if addr >= s.capacity {
		return nil, 0, fmt.Errorf("%w: 0x%x, capacity %d",
			ErrOutOfBounds, addr, s.capacity)
	}

	inUnitAddr := addr % s.unitSize
	baseAddr := addr - inUnitAddr

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, inUnitAddr, nil
}

// Load returns the byte at addr.
func (s *Storage) Load(addr uint64) (byte, error) {
	unit, offset, err := s.unit(addr)
	if err != nil {
		return 0, err
	}

	return unit[offset], nil
}

// Store overwrites the byte at addr.
func (s *Storage) Store(addr uint64, value byte) error {
	unit, offset, err := s.unit(addr)
	if err != nil {
		return err
	}

	unit[offset] = value

	return nil
}

// Read copies length bytes starting at address. The range may span units.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	if address+length > s.capacity {
		return nil, fmt.Errorf("%w: 0x%x+%d, capacity %d",
			ErrOutOfBounds, address, length, s.capacity)
	}

	res := make([]byte, length)
	done := uint64(0)

	for done < length {
		unit, offset, err := s.unit(address + done)
		if err != nil {
			return nil, err
		}

		done += uint64(copy(res[done:], unit[offset:]))
	}

	return res, nil
}

// Write copies data into the storage starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if address+length > s.capacity {
		return fmt.Errorf("%w: 0x%x+%d, capacity %d",
			ErrOutOfBounds, address, length, s.capacity)
	}

	done := uint64(0)

	for done < length {
		unit, offset, err := s.unit(address + done)
		if err != nil {
			return err
		}

		done += uint64(copy(unit[offset:], data[done:]))
	}

	return nil
}
