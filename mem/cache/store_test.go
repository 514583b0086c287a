package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	It("should allocate every line invalid with a zero block", func() {
		s, err := Initialize(2, 4, 3, 4)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.NumSets()).To(Equal(4))
		for i := 0; i < s.NumSets(); i++ {
			set := s.Set(uint64(i))
			Expect(set.Lines).To(HaveLen(4))

			for _, line := range set.Lines {
				Expect(line.Valid).To(BeFalse())
				Expect(line.Frequency).To(BeZero())
				Expect(line.Tag).To(BeZero())
				Expect(line.Block).To(Equal(make([]byte, 8)))
			}
		}
	})

	It("should fail on zero associativity", func() {
		s, err := Initialize(1, 1, 1, 0)

		Expect(err).To(MatchError(ErrInvalidConfig))
		Expect(s).To(BeNil())
	})

	It("should fetch one byte per miss when initialized", func() {
		s, err := Initialize(1, 1, 1, 2)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Config().PrefetchWidth).To(Equal(1))
	})

	It("should panic on an index outside of the store", func() {
		s, _ := Initialize(1, 1, 1, 1)

		Expect(func() { s.Set(2) }).To(Panic())
	})

	Context("set", func() {
		var set *Set

		BeforeEach(func() {
			s, _ := Initialize(0, 1, 1, 3)
			set = s.Set(0)
		})

		It("should miss in an empty set", func() {
			way, hit := set.Lookup(0)

			Expect(hit).To(BeFalse())
			Expect(way).To(Equal(-1))
		})

		It("should find a valid line with the tag", func() {
			set.Lines[1].Valid = true
			set.Lines[1].Tag = 5

			way, hit := set.Lookup(5)

			Expect(hit).To(BeTrue())
			Expect(way).To(Equal(1))
		})

		It("should ignore the tag of invalid lines", func() {
			set.Lines[0].Tag = 5

			_, hit := set.Lookup(5)

			Expect(hit).To(BeFalse())
		})

		It("should report the first invalid line", func() {
			set.Lines[0].Valid = true
			Expect(set.FirstInvalid()).To(Equal(1))

			set.Lines[1].Valid = true
			set.Lines[2].Valid = true
			Expect(set.FirstInvalid()).To(Equal(-1))
		})
	})

	It("should reset every line", func() {
		s, _ := Initialize(1, 1, 1, 2)
		line := &s.Set(1).Lines[1]
		line.Valid = true
		line.Frequency = 3
		line.Tag = 2
		line.Block[0] = 0xff

		s.Reset()

		Expect(*line).To(Equal(Line{Block: []byte{0, 0}}))
	})
})

var _ = Describe("LFUVictimFinder", func() {
	var (
		finder *LFUVictimFinder
		set    *Set
	)

	BeforeEach(func() {
		finder = NewLFUVictimFinder()
		set = &Set{Lines: make([]Line, 4)}
	})

	It("should pick the line with the smallest frequency", func() {
		for i, f := range []uint64{3, 2, 1, 4} {
			set.Lines[i] = Line{Valid: true, Frequency: f}
		}

		Expect(finder.FindVictim(set)).To(Equal(2))
	})

	It("should pick the lowest way on ties", func() {
		for i, f := range []uint64{3, 1, 2, 1} {
			set.Lines[i] = Line{Valid: true, Frequency: f}
		}

		Expect(finder.FindVictim(set)).To(Equal(1))
	})

	It("should pick an unused line before used ones", func() {
		for i, f := range []uint64{1, 1, 0, 1} {
			set.Lines[i] = Line{Valid: f > 0, Frequency: f}
		}

		Expect(finder.FindVictim(set)).To(Equal(2))
	})

	It("should panic on an empty set", func() {
		Expect(func() { finder.FindVictim(&Set{}) }).To(Panic())
	})
})
