package threads_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/wmmsim/isa"
	"github.com/archsim/wmmsim/threads"
)

func li(kind isa.Kind, mode isa.Mode) isa.LabeledInstruction {
	return isa.LabeledInstruction{Instruction: isa.Instruction{Kind: kind, Mode: mode}}
}

var _ = Describe("SC", func() {
	It("only admits the head instruction of each thread as a candidate", func() {
		program := [][]isa.LabeledInstruction{
			{li(isa.Fence, isa.SeqCst), li(isa.Fence, isa.SeqCst)},
		}
		sc := threads.NewSC(program)
		nodes := sc.PossibleExecutions()
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].ID).To(Equal(0))
	})

	It("admits the second instruction only after the first is removed", func() {
		program := [][]isa.LabeledInstruction{
			{li(isa.Fence, isa.SeqCst), li(isa.Fence, isa.SeqCst)},
		}
		sc := threads.NewSC(program)
		first := sc.PossibleExecutions()[0]
		sc.RemoveNode(first)

		nodes := sc.PossibleExecutions()
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].ID).To(Equal(1))
	})

	It("registers read back as zero before assignment", func() {
		sc := threads.NewSC([][]isa.LabeledInstruction{{}})
		Expect(sc.GetRegister(0, "r")).To(Equal(int32(0)))
		sc.AssignRegister(0, "r", 9)
		Expect(sc.GetRegister(0, "r")).To(Equal(int32(9)))
	})
})

var _ = Describe("TSO", func() {
	It("orders a Rel instruction before every later instruction in its thread", func() {
		program := [][]isa.LabeledInstruction{
			{li(isa.Fence, isa.Rel), li(isa.Fence, isa.Rlx), li(isa.Fence, isa.Rlx)},
		}
		tso := threads.NewTSO(program)

		first := tso.PossibleExecutions()
		Expect(first).To(HaveLen(1))
		Expect(first[0].ID).To(Equal(0))
	})

	It("makes an Acq instruction wait for everything before it", func() {
		program := [][]isa.LabeledInstruction{
			{li(isa.Fence, isa.Rlx), li(isa.Fence, isa.Acq)},
		}
		tso := threads.NewTSO(program)

		first := tso.PossibleExecutions()
		Expect(first).To(HaveLen(1))
		Expect(first[0].ID).To(Equal(0))
	})

	It("orders propagate nodes of the same thread FIFO", func() {
		program := [][]isa.LabeledInstruction{{}}
		tso := threads.NewTSO(program)

		tso.AddPropagateNode(0, 1, 10)
		tso.AddPropagateNode(0, 2, 20)

		nodes := tso.PossibleExecutions()
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].Instr.Instruction.PropAddr).To(Equal(int32(1)))
	})
})

var _ = Describe("PSO", func() {
	It("orders propagate nodes only within the same address", func() {
		program := [][]isa.LabeledInstruction{{}}
		pso := threads.NewPSO(program)

		pso.AddPropagateNode(0, 1, 10)
		pso.AddPropagateNode(0, 2, 20)

		nodes := pso.PossibleExecutions()
		Expect(nodes).To(HaveLen(2))
	})

	It("still orders two propagates to the same address FIFO", func() {
		program := [][]isa.LabeledInstruction{{}}
		pso := threads.NewPSO(program)

		pso.AddPropagateNode(0, 1, 10)
		pso.AddPropagateNode(0, 1, 20)

		nodes := pso.PossibleExecutions()
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].Instr.Instruction.PropValue).To(Equal(int32(10)))
	})
})
