package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(ValidateName(name)).To(Succeed())
		},
		Entry("single element", "Cache"),
		Entry("hierarchy", "System.L1Cache"),
		Entry("indexed", "Cache[0]"),
		Entry("multi-dimensional", "System.Bank[1][3]"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(ValidateName(name)).To(MatchError(ErrInvalidName))
		},
		Entry("empty", ""),
		Entry("empty element", "System..Cache"),
		Entry("trailing dot", "System."),
		Entry("underscore", "Cache_0"),
		Entry("dash", "Cache-0"),
		Entry("lower case", "cache"),
		Entry("unclosed bracket", "Cache[0"),
		Entry("unopened bracket", "Cache0]"),
		Entry("non-integer index", "Cache[a]"),
		Entry("text after index", "Cache[0]x"),
	)

	It("should build names", func() {
		Expect(BuildName("", "Cache")).To(Equal("Cache"))
		Expect(BuildName("System", "Cache")).To(Equal("System.Cache"))
	})
})
