package cache

import (
	"github.com/sarchlab/lfusim/sim"
)

// Builder can build cache engines.
type Builder struct {
	setBits       uint8
	tagBits       uint8
	blockBits     uint8
	associativity uint8
	prefetchWidth int
	hooks         []sim.Hook
}

// MakeBuilder creates a builder with the geometry of the reference
// demonstration: 2 sets, 2-byte blocks, 2 ways, 1-byte fetch.
func MakeBuilder() Builder {
	return Builder{
		setBits:       1,
		tagBits:       1,
		blockBits:     1,
		associativity: 2,
		prefetchWidth: 1,
	}
}

// WithSetBits sets log2 of the number of sets.
func (b Builder) WithSetBits(n uint8) Builder {
	b.setBits = n
	return b
}

// WithTagBits sets the tag width used when displaying tags.
func (b Builder) WithTagBits(n uint8) Builder {
	b.tagBits = n
	return b
}

// WithBlockBits sets log2 of the number of bytes in a block.
func (b Builder) WithBlockBits(n uint8) Builder {
	b.blockBits = n
	return b
}

// WithAssociativity sets the number of lines per set.
func (b Builder) WithAssociativity(n uint8) Builder {
	b.associativity = n
	return b
}

// WithPrefetchWidth sets how many bytes a read miss fetches (1 or 2).
func (b Builder) WithPrefetchWidth(n int) Builder {
	b.prefetchWidth = n
	return b
}

// WithConfig copies every field of config into the builder.
func (b Builder) WithConfig(config Config) Builder {
	b.setBits = config.SetBits
	b.tagBits = config.TagBits
	b.blockBits = config.BlockBits
	b.associativity = config.Associativity
	b.prefetchWidth = config.PrefetchWidth

	return b
}

// WithHooks registers hooks on the engine at build time.
func (b Builder) WithHooks(hooks ...sim.Hook) Builder {
	b.hooks = append([]sim.Hook(nil), hooks...)
	return b
}

// Config returns the configuration the builder would build.
func (b Builder) Config() Config {
	return Config{
		SetBits:       b.setBits,
		TagBits:       b.tagBits,
		BlockBits:     b.blockBits,
		Associativity: b.associativity,
		PrefetchWidth: b.prefetchWidth,
	}
}

// Build creates the store and the engine that drives it.
func (b Builder) Build(name string) (*Engine, error) {
	if err := sim.ValidateName(name); err != nil {
		return nil, err
	}

	store, err := NewStore(b.Config())
	if err != nil {
		return nil, err
	}

	engine := NewEngine(name, store)
	for _, h := range b.hooks {
		engine.AcceptHook(h)
	}

	return engine, nil
}
