package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/archsim/wmmsim/model"
)

// Report is the result of verifying one scenario: invariant checks over
// the graph it ran on, plus the set of distinct outcomes Sample
// observed across repeated runs.
type Report struct {
	Name     string
	Issues   []Issue
	Outcomes []Outcome
	Trials   int
}

// GenerateReport checks invariants on model's current graph and samples
// trials additional fresh runs of build to collect the outcome set.
func GenerateReport(name string, m model.Model, trials int, build func() (model.Model, error)) (*Report, error) {
	report := &Report{
		Name:   name,
		Issues: CheckInvariants(m.Graph()),
		Trials: trials,
	}

	outcomes, err := Sample(trials, build)
	if err != nil {
		return nil, fmt.Errorf("sampling %q: %w", name, err)
	}
	report.Outcomes = outcomes

	return report, nil
}

// WriteReport writes a formatted report to w.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	fmt.Fprintln(w, "\nSTAGE 1: INVARIANT CHECKS")
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "  no violations found")
	} else {
		fmt.Fprintf(w, "  %d violations found:\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "    [%s] %s\n", issue.Kind, issue.Message)
		}
	}

	fmt.Fprintln(w, "\nSTAGE 2: OUTCOME SAMPLING")
	fmt.Fprintf(w, "  %d trials, %d distinct outcomes observed:\n", r.Trials, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		fmt.Fprintf(w, "    %s (seen %d/%d)\n", outcome.describe(), outcome.Count, r.Trials)
	}

	fmt.Fprintln(w, "\n"+separator)
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "RESULT: PASS")
	} else {
		fmt.Fprintln(w, "RESULT: FAIL")
	}
	fmt.Fprintln(w, separator)
}

// SaveReportToFile writes the report to filename.
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
