package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lfusim/mem"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := mem.NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := mem.NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(4094, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
		Expect(storage.NumAllocatedUnits()).To(Equal(2))
	})

	It("should load and store single bytes", func() {
		storage := mem.NewStorageWithUnitSize(64, 8)
		Expect(storage.Store(9, 0xab)).To(Succeed())

		b, err := storage.Load(9)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte(0xab)))

		b, err = storage.Load(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(BeZero())
	})

	It("should return error if accessing over the capacity", func() {
		storage := mem.NewStorage(4096)

		err := storage.Write(4096, []byte{1})
		Expect(err).To(MatchError(mem.ErrOutOfBounds))

		_, err = storage.Read(4095, 2)
		Expect(err).To(MatchError(mem.ErrOutOfBounds))

		_, err = storage.Load(4096)
		Expect(err).To(MatchError(mem.ErrOutOfBounds))
	})
})

var _ = Describe("Bytes", func() {
	It("should load and store in bounds", func() {
		m := mem.Bytes{1, 2, 3}

		Expect(m.Store(1, 9)).To(Succeed())

		b, err := m.Load(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte(9)))
		Expect(m.Capacity()).To(Equal(uint64(3)))
	})

	It("should reject out of bounds access", func() {
		m := mem.Bytes{1, 2, 3}

		_, err := m.Load(3)
		Expect(err).To(MatchError(mem.ErrOutOfBounds))
		Expect(m.Store(3, 1)).To(MatchError(mem.ErrOutOfBounds))
	})

	It("should check signed addresses", func() {
		m := mem.Bytes{1, 2, 3}

		Expect(mem.CheckAddress(m, 2)).To(Succeed())
		Expect(mem.CheckAddress(m, -1)).To(MatchError(mem.ErrOutOfBounds))
		Expect(mem.CheckAddress(m, 3)).To(MatchError(mem.ErrOutOfBounds))
	})
})
