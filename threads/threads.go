// Package threads wires each memory model's program-order and
// mode-induced edges into a dependency graph, and carries the
// per-thread register files that sit in front of it.
package threads

import (
	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/isa"
)

// System is the contract shared by the SC, TSO, and PSO thread systems
// (spec §4.2).
type System interface {
	PossibleExecutions() []depgraph.Node
	AssignRegister(threadID int, register string, value int32)
	GetRegister(threadID int, register string) int32
	RemoveNode(node depgraph.Node)
	Goto(label string)
	// Registers returns a snapshot of thread t's register file, for
	// trace rendering.
	Registers(threadID int) map[string]int32
	// NumThreads reports how many threads this system was built over.
	NumThreads() int
	// Graph exposes the underlying dependency graph, for invariant
	// checking.
	Graph() *depgraph.Graph
}

// registers is the per-thread register-file storage shared by all three
// thread systems; an unassigned register reads as 0.
type registers struct {
	files []map[string]int32
}

func newRegisters(numThreads int) registers {
	files := make([]map[string]int32, numThreads)
	for i := range files {
		files[i] = make(map[string]int32)
	}
	return registers{files: files}
}

func (r *registers) assign(threadID int, register string, value int32) {
	r.files[threadID][register] = value
}

func (r *registers) get(threadID int, register string) int32 {
	return r.files[threadID][register]
}

// numThreads reports how many thread register files exist.
func (r *registers) numThreads() int {
	return len(r.files)
}

// snapshot returns a copy of thread t's register file, for trace
// rendering.
func (r *registers) snapshot(threadID int) map[string]int32 {
	out := make(map[string]int32, len(r.files[threadID]))
	for k, v := range r.files[threadID] {
		out[k] = v
	}
	return out
}

// wireProgramOrder links every instruction to every instruction before
// it in program order, so this thread's own history is always a total
// order regardless of memory model (spec §4.1).
func wireProgramOrder(g *depgraph.Graph, instructions []isa.LabeledInstruction, threadID int) {
	var ids []int
	for _, instr := range instructions {
		id := g.AddNode(threadID, instr)
		for _, prev := range ids {
			g.AddEdge(id, prev)
		}
		ids = append(ids, id)
	}
}

// wireModeEdges links a thread's mode-annotated instructions in the
// TSO/PSO style: Rel orders itself before every later instruction in
// the thread, Acq orders itself after every earlier one, RelAcq does
// both, and SeqCst/Rlx add no edges (spec §4.2). The TSO/PSO builders
// call it on nodes that carry no program-order edges.
func wireModeEdges(g *depgraph.Graph, instructions []isa.LabeledInstruction, ids []int) {
	for i, instr := range instructions {
		mode, ok := instr.Instruction.HasMode()
		if !ok {
			continue
		}
		switch mode {
		case isa.Rel:
			for j := i + 1; j < len(instructions); j++ {
				g.AddEdge(ids[j], ids[i])
			}
		case isa.Acq:
			for j := 0; j < i; j++ {
				g.AddEdge(ids[i], ids[j])
			}
		case isa.RelAcq:
			for j := 0; j < i; j++ {
				g.AddEdge(ids[i], ids[j])
			}
			for j := i + 1; j < len(instructions); j++ {
				g.AddEdge(ids[j], ids[i])
			}
		case isa.SeqCst, isa.Rlx:
		}
	}
}

// addNodesOnly appends every instruction of a thread to the graph
// without any edges, returning their ids - used by the TSO/PSO builders,
// which wire mode edges in a pass separate from node creation.
func addNodesOnly(g *depgraph.Graph, instructions []isa.LabeledInstruction, threadID int) []int {
	ids := make([]int, 0, len(instructions))
	for _, instr := range instructions {
		ids = append(ids, g.AddNode(threadID, instr))
	}
	return ids
}

// SC is the sequentially consistent thread system: program order alone
// is the dependency graph.
type SC struct {
	graph *depgraph.Graph
	regs  registers
}

// NewSC builds an SC thread system over the per-thread programs.
func NewSC(instructions [][]isa.LabeledInstruction) *SC {
	g := depgraph.New()
	for threadID, threadInstructions := range instructions {
		wireProgramOrder(g, threadInstructions, threadID)
	}
	return &SC{graph: g, regs: newRegisters(len(instructions))}
}

func (s *SC) PossibleExecutions() []depgraph.Node {
	return candidateNodes(s.graph)
}

func (s *SC) AssignRegister(threadID int, register string, value int32) {
	s.regs.assign(threadID, register, value)
}

func (s *SC) GetRegister(threadID int, register string) int32 {
	return s.regs.get(threadID, register)
}

func (s *SC) Registers(threadID int) map[string]int32 {
	return s.regs.snapshot(threadID)
}

func (s *SC) NumThreads() int {
	return s.regs.numThreads()
}

func (s *SC) Graph() *depgraph.Graph {
	return s.graph
}

func (s *SC) RemoveNode(node depgraph.Node) {
	s.graph.RemoveNode(node.ID)
}

func (s *SC) Goto(label string) {
	rewind(s.graph, label)
}

func candidateNodes(g *depgraph.Graph) []depgraph.Node {
	ids := g.Candidates()
	nodes := make([]depgraph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.Node(id)
	}
	return nodes
}

// rewind pops the execution stack until the node carrying label is
// restored, a no-op if label's node is already active (including
// unknown labels, which IsLabelActive reports as active - spec §9).
func rewind(g *depgraph.Graph, label string) {
	if g.IsLabelActive(label) {
		return
	}
	for {
		current, hasLabel := g.RestoreNode()
		if hasLabel && current == label {
			return
		}
	}
}
