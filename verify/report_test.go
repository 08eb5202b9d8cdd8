package verify_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
	"github.com/archsim/wmmsim/verify"
)

var _ = Describe("GenerateReport", func() {
	It("renders a PASS report for a clean scenario", func() {
		src := "a = 7\nx = 0\nstore SEQ_CST x a\nload SEQ_CST x b\n"
		build := func() (model.Model, error) {
			program, err := parser.ParseProgram(src)
			if err != nil {
				return nil, err
			}
			return model.NewSC(program), nil
		}

		m, err := build()
		Expect(err).NotTo(HaveOccurred())
		chooser := model.NewRandChooser(1)
		for {
			stepped, _ := m.RandomStep(chooser)
			if !stepped {
				break
			}
		}

		report, err := verify.GenerateReport("S1", m, 20, build)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Issues).To(BeEmpty())

		var sb strings.Builder
		report.WriteReport(&sb)
		Expect(sb.String()).To(ContainSubstring("RESULT: PASS"))
	})
})
