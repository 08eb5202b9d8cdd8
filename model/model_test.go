package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/isa"
	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
)

// firstChooser always takes the lowest-id candidate - enough to drain a
// model to completion once a scenario's interesting steps have already
// been driven explicitly via pick/step below.
type firstChooser struct{}

func (firstChooser) Choose(candidates []depgraph.Node) depgraph.Node {
	best := candidates[0]
	for _, n := range candidates[1:] {
		if n.ID < best.ID {
			best = n
		}
	}
	return best
}

func runToCompletion(m model.Model, chooser model.Chooser) int {
	steps := 0
	for {
		stepped, _ := m.RandomStep(chooser)
		if !stepped {
			return steps
		}
		steps++
	}
}

// pick finds the first current candidate matching predicate and steps
// it, failing the spec if no such candidate exists - used to force a
// specific legal interleaving and demonstrate it is reachable.
func pick(m model.Model, predicate func(depgraph.Node) bool) depgraph.Node {
	for _, n := range m.PossibleExecutions() {
		if predicate(n) {
			m.Step(n)
			return n
		}
	}
	Fail("no candidate matched the requested predicate")
	return depgraph.Node{}
}

func isKind(kind isa.Kind) func(depgraph.Node) bool {
	return func(n depgraph.Node) bool { return n.Instr.Instruction.Kind == kind }
}

func isThread(threadID int) func(depgraph.Node) bool {
	return func(n depgraph.Node) bool { return n.ThreadID == threadID }
}

func and(fs ...func(depgraph.Node) bool) func(depgraph.Node) bool {
	return func(n depgraph.Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

var _ = Describe("SC", func() {
	It("S1: single thread constant + store + load yields the stored value", func() {
		program, err := parser.ParseProgram("a = 7\nx = 0\nstore SEQ_CST x a\nload SEQ_CST x b\n")
		Expect(err).NotTo(HaveOccurred())

		m := model.NewSC(program)
		steps := runToCompletion(m, firstChooser{})
		Expect(steps).To(Equal(4))
		Expect(m.GetRegister(0, "b")).To(Equal(int32(7)))
		Expect(m.Memory()[0]).To(Equal(int32(7)))
	})

	It("S3: a backward branch executes the decrement three times and rewinds to i=0", func() {
		src := "i = 3\none = 1\nL: i = i - one\nif i goto L\n"
		program, err := parser.ParseProgram(src)
		Expect(err).NotTo(HaveOccurred())

		m := model.NewSC(program)
		steps := runToCompletion(m, firstChooser{})
		// 4 instructions run straight through, then the backward goto fires
		// twice more, each time re-executing exactly the decrement and the
		// condition check: 4 + 2*2 = 8.
		Expect(steps).To(Equal(8))
	})
})

var _ = Describe("TSO", func() {
	It("S2: a store-buffer litmus admits the outcome SC forbids", func() {
		// Thread 0 stores 1 to address 1. Thread 1 stores 2 to address 2,
		// then loads address 1 - the same address thread 0 wrote. Run
		// thread 1's load before thread 0's store propagates: it must
		// observe the initial value 0, an outcome no SC interleaving
		// (which always runs a store before a later load that is issued
		// after it) could produce.
		src := "addrA = 1\none = 1\nstore RLX addrA one\n\naddrB = 2\ntwo = 2\nstore RLX addrB two\naddrA = 1\nload RLX addrA r0\n"
		program, err := parser.ParseProgram(src)
		Expect(err).NotTo(HaveOccurred())

		m := model.NewTSO(program)
		pick(m, and(isThread(0), isKind(isa.Const)))
		pick(m, and(isThread(0), isKind(isa.Const)))
		pick(m, and(isThread(0), isKind(isa.Store)))
		pick(m, and(isThread(1), isKind(isa.Const)))
		pick(m, and(isThread(1), isKind(isa.Const)))
		pick(m, and(isThread(1), isKind(isa.Store)))
		pick(m, and(isThread(1), isKind(isa.Const)))
		pick(m, and(isThread(1), isKind(isa.Load)))

		Expect(m.GetRegister(1, "r0")).To(Equal(int32(0)))

		remaining := runToCompletion(m, firstChooser{})
		Expect(remaining).To(Equal(2)) // the two still-buffered propagates
	})

	It("S4: the two propagates of a single thread drain strictly FIFO", func() {
		src := "v = 1\naddrx = 10\naddry = 20\nstore RLX addrx v\nfence SEQ_CST\nstore RLX addry v\n"
		program, err := parser.ParseProgram(src)
		Expect(err).NotTo(HaveOccurred())

		m := model.NewTSO(program)
		pick(m, isKind(isa.Const))
		pick(m, isKind(isa.Const))
		pick(m, isKind(isa.Const))
		pick(m, and(isKind(isa.Store), func(n depgraph.Node) bool {
			return n.Instr.Instruction.Addr == "addrx"
		}))
		pick(m, isKind(isa.Fence))
		pick(m, and(isKind(isa.Store), func(n depgraph.Node) bool {
			return n.Instr.Instruction.Addr == "addry"
		}))

		// addrx's propagate was synthesized first, so TSO's per-thread FIFO
		// keeps addry's propagate out of the candidate set until it drains -
		// the mechanism spec §4/§9 says keeps the two from crossing.
		for _, n := range m.PossibleExecutions() {
			if isKind(isa.Propagate)(n) {
				Expect(n.Instr.Instruction.PropAddr).To(Equal(int32(10)))
			}
		}

		runToCompletion(m, firstChooser{})
	})

	It("S6: a successful CAS adds exactly one propagate, a failing CAS adds none", func() {
		successProgram, err := parser.ParseProgram(
			"addr = 0\nexp = 0\ndes = 1\nto := cas RLX addr exp des\n")
		Expect(err).NotTo(HaveOccurred())
		m := model.NewTSO(successProgram)
		steps := runToCompletion(m, firstChooser{})
		Expect(steps).To(Equal(5)) // 3 consts + cas + its propagate

		failProgram, err := parser.ParseProgram(
			"addr = 0\nexp = 99\ndes = 1\nto := cas RLX addr exp des\n")
		Expect(err).NotTo(HaveOccurred())
		m = model.NewTSO(failProgram)
		steps = runToCompletion(m, firstChooser{})
		Expect(steps).To(Equal(4)) // 3 consts + cas, no propagate
	})
})

var _ = Describe("PSO", func() {
	It("S5: propagates to distinct addresses may complete out of program order", func() {
		src := "v = 1\naddrx = 10\naddry = 20\nstore RLX addrx v\nstore RLX addry v\n"
		program, err := parser.ParseProgram(src)
		Expect(err).NotTo(HaveOccurred())

		m := model.NewPSO(program)
		pick(m, isKind(isa.Const))
		pick(m, isKind(isa.Const))
		pick(m, isKind(isa.Const))
		pick(m, isKind(isa.Store)) // one of the two stores
		pick(m, isKind(isa.Store)) // the other store

		// Both propagates are now candidates simultaneously - PSO does not
		// order them against each other since they target different
		// addresses; y's can run before x's.
		propagates := 0
		for _, n := range m.PossibleExecutions() {
			if isKind(isa.Propagate)(n) {
				propagates++
			}
		}
		Expect(propagates).To(Equal(2))

		runToCompletion(m, firstChooser{})
	})
})
