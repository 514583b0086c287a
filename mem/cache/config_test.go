package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("should derive the number of sets and the block size", func() {
		c := Config{SetBits: 3, BlockBits: 4, Associativity: 2, PrefetchWidth: 1}

		Expect(c.NumSets()).To(Equal(uint64(8)))
		Expect(c.BlockSize()).To(Equal(uint64(16)))
		Expect(c.TotalSize()).To(Equal(uint64(256)))
	})

	It("should decompose an address", func() {
		c := Config{SetBits: 1, BlockBits: 1, Associativity: 2, PrefetchWidth: 1}

		Expect(c.Decompose(0)).To(Equal(Address{Tag: 0, Index: 0, Offset: 0}))
		Expect(c.Decompose(2)).To(Equal(Address{Tag: 0, Index: 1, Offset: 0}))
		Expect(c.Decompose(7)).To(Equal(Address{Tag: 1, Index: 1, Offset: 1}))
	})

	DescribeTable("should rebuild every address from its fields",
		func(setBits, blockBits uint8) {
			c := Config{
				SetBits:       setBits,
				BlockBits:     blockBits,
				Associativity: 1,
				PrefetchWidth: 1,
			}

			for addr := uint64(0); addr < 4096; addr += 7 {
				Expect(c.Compose(c.Decompose(addr))).To(Equal(addr))
			}

			addr := uint64(0xdeadbeef)
			fields := c.Decompose(addr)
			Expect(fields.Index).To(BeNumerically("<", c.NumSets()))
			Expect(fields.Offset).To(BeNumerically("<", c.BlockSize()))
			Expect(c.Compose(fields)).To(Equal(addr))
		},
		Entry("direct index, single byte blocks", uint8(0), uint8(0)),
		Entry("small cache", uint8(1), uint8(1)),
		Entry("typical L1", uint8(6), uint8(6)),
		Entry("wide index", uint8(20), uint8(12)),
	)

	It("should accept a cache of exactly 1 GB", func() {
		c := Config{SetBits: 20, BlockBits: 8, Associativity: 4, PrefetchWidth: 1}

		Expect(c.TotalSize()).To(Equal(uint64(1 << 30)))
		Expect(c.Validate()).To(Succeed())
	})

	DescribeTable("should reject invalid geometries",
		func(c Config) {
			Expect(c.Validate()).To(MatchError(ErrInvalidConfig))
		},
		Entry("zero associativity",
			Config{SetBits: 1, BlockBits: 1, PrefetchWidth: 1}),
		Entry("too many index and offset bits",
			Config{SetBits: 20, BlockBits: 13, Associativity: 1, PrefetchWidth: 1}),
		Entry("more than 1 GB of blocks",
			Config{SetBits: 20, BlockBits: 12, Associativity: 255, PrefetchWidth: 1}),
		Entry("missing prefetch width",
			Config{SetBits: 1, BlockBits: 1, Associativity: 1}),
		Entry("prefetch wider than two bytes",
			Config{SetBits: 1, BlockBits: 1, Associativity: 1, PrefetchWidth: 4}),
	)
})
