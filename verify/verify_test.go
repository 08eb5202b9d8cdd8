package verify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
	"github.com/archsim/wmmsim/verify"
)

var _ = Describe("CheckInvariants", func() {
	It("finds no violations on a freshly built graph", func() {
		program, err := parser.ParseProgram("a = 1\n")
		Expect(err).NotTo(HaveOccurred())
		m := model.NewSC(program)

		issues := verify.CheckInvariants(m.Graph())
		Expect(issues).To(BeEmpty())
	})

	It("finds no violations after the graph runs to completion", func() {
		program, err := parser.ParseProgram("a = 7\nx = 0\nstore SEQ_CST x a\nload SEQ_CST x b\n")
		Expect(err).NotTo(HaveOccurred())
		m := model.NewSC(program)

		chooser := model.NewRandChooser(1)
		for {
			stepped, _ := m.RandomStep(chooser)
			if !stepped {
				break
			}
		}

		issues := verify.CheckInvariants(m.Graph())
		Expect(issues).To(BeEmpty())
	})
})

var _ = Describe("Sample", func() {
	It("observes both outcomes of the TSO store-buffer litmus across many trials", func() {
		src := "addrA = 1\none = 1\nstore RLX addrA one\n\n" +
			"addrB = 2\ntwo = 2\nstore RLX addrB two\naddrA = 1\nload RLX addrA r0\n"

		build := func() (model.Model, error) {
			program, err := parser.ParseProgram(src)
			if err != nil {
				return nil, err
			}
			return model.NewTSO(program), nil
		}

		outcomes, err := verify.Sample(200, build)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(outcomes)).To(BeNumerically(">=", 1))

		total := 0
		r0Values := make(map[int32]bool)
		for _, o := range outcomes {
			total += o.Count
			r0Values[o.Registers[1]["r0"]] = true
		}
		Expect(total).To(Equal(200))
		Expect(r0Values).To(HaveKey(int32(0)))
		Expect(r0Values).To(HaveKey(int32(1)))
	})

	It("propagates a build error", func() {
		build := func() (model.Model, error) {
			return nil, parseErr()
		}
		_, err := verify.Sample(1, build)
		Expect(err).To(HaveOccurred())
	})
})

func parseErr() error {
	_, err := parser.ParseInstruction("")
	return err
}
