// Package verify provides invariant checking and outcome sampling over
// a running model, the teacher's static-lint-plus-functional-simulator
// verification discipline retargeted at dependency graphs instead of
// CGRA kernels.
package verify

import (
	"fmt"

	"github.com/archsim/wmmsim/depgraph"
)

// IssueKind names the invariant an Issue violates.
type IssueKind int

const (
	// IssueCandidateSet: a node is a candidate iff it is active and
	// waits on zero active successors (I1).
	IssueCandidateSet IssueKind = iota
	// IssueActiveNeighbors: an inactive node must count no active
	// successors it waits on (I2).
	IssueActiveNeighbors
)

func (k IssueKind) String() string {
	switch k {
	case IssueCandidateSet:
		return "CANDIDATE_SET"
	case IssueActiveNeighbors:
		return "ACTIVE_NEIGHBORS"
	default:
		return "UNKNOWN"
	}
}

// Issue is one invariant violation found by CheckInvariants.
type Issue struct {
	Kind    IssueKind
	NodeID  int
	Message string
}

// CheckInvariants walks every node of g and checks I1 and I2 against
// its currently exported state (spec §3's dependency-graph invariants).
// A clean model returns an empty slice.
func CheckInvariants(g *depgraph.Graph) []Issue {
	var issues []Issue

	candidates := make(map[int]struct{})
	for _, id := range g.Candidates() {
		candidates[id] = struct{}{}
	}

	for id := 0; id < g.NumNodes(); id++ {
		active := g.IsNodeActive(id)
		_, isCandidate := candidates[id]

		wantCandidate := active && g.ActiveNeighbors(id) == 0
		if isCandidate != wantCandidate {
			issues = append(issues, Issue{
				Kind:   IssueCandidateSet,
				NodeID: id,
				Message: fmt.Sprintf(
					"node %d: candidate=%v active=%v activeNeighbors=%d (I1 requires candidate == active && activeNeighbors == 0)",
					id, isCandidate, active, g.ActiveNeighbors(id)),
			})
		}

		if !active && g.ActiveNeighbors(id) != 0 {
			issues = append(issues, Issue{
				Kind:   IssueActiveNeighbors,
				NodeID: id,
				Message: fmt.Sprintf(
					"node %d: inactive but activeNeighbors=%d, want 0 (I2)",
					id, g.ActiveNeighbors(id)),
			})
		}
	}

	return issues
}
