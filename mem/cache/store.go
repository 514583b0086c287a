package cache

// A Line is one storage slot of the cache.
type Line struct {
	Valid     bool
	Frequency uint64
	Tag       uint64
	Block     []byte
}

// A Set is the group of lines that an address index maps to.
type Set struct {
	Lines []Line
}

// Lookup returns the way that holds tag, if any.
func (s *Set) Lookup(tag uint64) (way int, hit bool) {
	for i := range s.Lines {
		if s.Lines[i].Valid && s.Lines[i].Tag == tag {
			return i, true
		}
	}

	return -1, false
}

// FirstInvalid returns the lowest way that has never been filled, or -1 if
// every line is valid.
func (s *Set) FirstInvalid() int {
	for i := range s.Lines {
		if !s.Lines[i].Valid {
			return i
		}
	}

	return -1
}

// A Store owns the sets and lines of a cache.
type Store struct {
	config Config
	sets   []Set
}

// Initialize creates a store from the classic cache parameters. One byte is
// fetched per read miss.
func Initialize(setBits, tagBits, blockBits, associativity uint8) (*Store, error) {
	return NewStore(Config{
		SetBits:       setBits,
		TagBits:       tagBits,
		BlockBits:     blockBits,
		Associativity: associativity,
		PrefetchWidth: 1,
	})
}

// NewStore allocates every set and line of the cache. All lines start
// invalid with zero-filled blocks.
func NewStore(config Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		config: config,
		sets:   make([]Set, config.NumSets()),
	}

	blockSize := config.BlockSize()
	for i := range s.sets {
		lines := make([]Line, config.Associativity)
		for j := range lines {
			lines[j].Block = make([]byte, blockSize)
		}

		s.sets[i].Lines = lines
	}

	return s, nil
}

// Config returns the geometry of the store.
func (s *Store) Config() Config {
	return s.config
}

// NumSets returns the number of sets.
func (s *Store) NumSets() int {
	return len(s.sets)
}

// Set returns the set at index. The index must come from decomposing an
// address with the store's configuration.
func (s *Store) Set(index uint64) *Set {
	return &s.sets[index]
}

// Reset invalidates every line and clears its block.
func (s *Store) Reset() {
	for i := range s.sets {
		for j := range s.sets[i].Lines {
			line := &s.sets[i].Lines[j]
			line.Valid = false
			line.Frequency = 0
			line.Tag = 0
			clear(line.Block)
		}
	}
}
