package sim

import (
	"bytes"
	"log"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type hookedThing struct {
	HookableBase
	NamedBase
}

type recordingHook struct {
	name  string
	order *[]string
	ctxs  []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)

	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
}

var _ = Describe("HookableBase", func() {
	var (
		thing *hookedThing
		pos   *HookPos
	)

	BeforeEach(func() {
		thing = &hookedThing{NamedBase: MakeNamedBase("Thing")}
		pos = &HookPos{Name: "Somewhere"}
	})

	It("should invoke hooks in registration order", func() {
		order := []string{}
		thing.AcceptHook(&recordingHook{name: "a", order: &order})
		thing.AcceptHook(&recordingHook{name: "b", order: &order})

		thing.InvokeHook(HookCtx{Domain: thing, Pos: pos})

		Expect(order).To(Equal([]string{"a", "b"}))
		Expect(thing.NumHooks()).To(Equal(2))
	})

	It("should pass the context through", func() {
		hook := &recordingHook{}
		thing.AcceptHook(hook)

		thing.InvokeHook(HookCtx{Domain: thing, Pos: pos, Item: 42})

		Expect(hook.ctxs).To(HaveLen(1))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(pos))
		Expect(hook.ctxs[0].Item).To(Equal(42))
		Expect(hook.ctxs[0].Domain.Name()).To(Equal("Thing"))
	})

	It("should panic on duplicated hooks", func() {
		hook := &recordingHook{}
		thing.AcceptHook(hook)

		Expect(func() { thing.AcceptHook(hook) }).To(Panic())
	})
})

var _ = Describe("IDGenerator", func() {
	It("should generate sequential ids", func() {
		g := &sequentialIDGenerator{}

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
	})

	It("should generate unique global ids", func() {
		g := globalIDGenerator{}

		Expect(g.Generate()).NotTo(Equal(g.Generate()))
	})

	Context("selecting a generator", func() {
		var saved IDGenerator
		var savedInstantiated bool

		BeforeEach(func() {
			saved, savedInstantiated = idGenerator, idGeneratorInstantiated
			idGenerator, idGeneratorInstantiated = nil, false
		})

		AfterEach(func() {
			idGenerator, idGeneratorInstantiated = saved, savedInstantiated
		})

		It("should use the global generator when asked to", func() {
			UseGlobalIDGenerator()

			Expect(GetIDGenerator()).To(Equal(globalIDGenerator{}))
			Expect(GetIDGenerator().Generate()).To(HaveLen(20))
		})

		It("should use the sequential generator when asked to", func() {
			UseSequentialIDGenerator()

			Expect(GetIDGenerator().Generate()).To(Equal("1"))
		})

		It("should default to sequential ids", func() {
			Expect(GetIDGenerator().Generate()).To(Equal("1"))
		})

		It("should refuse to switch after an id has been handed out", func() {
			GetIDGenerator()

			Expect(UseGlobalIDGenerator).To(Panic())
		})
	})
})

var _ = Describe("LogHookBase", func() {
	It("should print through the given logger", func() {
		buf := new(bytes.Buffer)
		base := MakeLogHookBase(log.New(buf, "", 0))

		base.Printf("set %d", 1)

		Expect(buf.String()).To(Equal("set 1\n"))
	})

	It("should fall back to an unadorned stderr logger", func() {
		base := MakeLogHookBase(nil)

		Expect(base.Writer()).To(BeIdenticalTo(os.Stderr))
		Expect(base.Prefix()).To(BeEmpty())
		Expect(base.Flags()).To(BeZero())
	})
})
