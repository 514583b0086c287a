package cache

// A VictimFinder decides which line of a set should be replaced.
type VictimFinder interface {
	FindVictim(set *Set) int
}

// LFUVictimFinder evicts the least frequently used line.
type LFUVictimFinder struct {
}

// NewLFUVictimFinder returns a newly constructed LFU evictor.
func NewLFUVictimFinder() *LFUVictimFinder {
	return new(LFUVictimFinder)
}

// FindVictim returns the way with the strictly smallest frequency. Ties go to
// the lowest way. Invalid lines have frequency 0, so they are picked before
// any line that has been used.
func (e *LFUVictimFinder) FindVictim(set *Set) int {
	if len(set.Lines) == 0 {
		panic("cannot find a victim in an empty set")
	}

	victim := 0
	for i := 1; i < len(set.Lines); i++ {
		if set.Lines[i].Frequency < set.Lines[victim].Frequency {
			victim = i
		}
	}

	return victim
}
