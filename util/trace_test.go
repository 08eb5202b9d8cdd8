package util_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
	"github.com/archsim/wmmsim/util"
)

var _ = Describe("RenderState", func() {
	It("renders a REGISTERS and MEMORY block but no BUFFERS block for SC", func() {
		program, err := parser.ParseProgram("a = 7\n")
		Expect(err).NotTo(HaveOccurred())
		m := model.NewSC(program)
		m.RandomStep(firstChooser{})

		out := util.RenderState(1, m)
		Expect(out).To(ContainSubstring("REGISTERS"))
		Expect(out).To(ContainSubstring("MEMORY"))
		Expect(out).NotTo(ContainSubstring("BUFFERS"))
	})

	It("renders a BUFFERS block once TSO has a pending store", func() {
		program, err := parser.ParseProgram("addr = 1\nv = 5\nstore RLX addr v\n")
		Expect(err).NotTo(HaveOccurred())
		m := model.NewTSO(program)
		m.RandomStep(firstChooser{})
		m.RandomStep(firstChooser{})
		m.RandomStep(firstChooser{})

		out := util.RenderState(3, m)
		Expect(out).To(ContainSubstring("BUFFERS"))
		Expect(strings.Contains(out, "# step 3")).To(BeTrue())
	})
})

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
