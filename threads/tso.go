package threads

import (
	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/isa"
)

// TSO is the Total Store Order thread system. A thread's instructions
// are ordered only by the Rel/Acq/RelAcq mode edges - there are no plain
// program-order edges; propagate events synthesized later are
// FIFO-ordered per thread, so a thread's own writes drain in the order
// it issued them.
type TSO struct {
	graph          *depgraph.Graph
	regs           registers
	propagateNodes []map[int]struct{}
}

// NewTSO builds a TSO thread system over the per-thread programs.
func NewTSO(instructions [][]isa.LabeledInstruction) *TSO {
	g := depgraph.New()
	propagateNodes := make([]map[int]struct{}, len(instructions))
	for threadID, threadInstructions := range instructions {
		ids := addNodesOnly(g, threadInstructions, threadID)
		wireModeEdges(g, threadInstructions, ids)
		propagateNodes[threadID] = make(map[int]struct{})
	}
	return &TSO{graph: g, regs: newRegisters(len(instructions)), propagateNodes: propagateNodes}
}

// AddPropagateNode synthesizes the propagate event for a completed
// store/successful-CAS/FAI: it must wait for every currently active
// fence (of any thread), and it joins the back of that thread's
// propagate FIFO, behind every propagate node still pending for the
// thread (spec §4.2/§5).
func (t *TSO) AddPropagateNode(threadID int, address, value int32) {
	id := t.graph.AddNode(threadID, isa.NewPropagate(threadID, address, value))
	for _, fenceNode := range t.graph.ActiveFenceNodes() {
		t.graph.AddEdge(id, fenceNode)
	}
	for node := range t.propagateNodes[threadID] {
		t.graph.AddEdge(id, node)
	}
	t.propagateNodes[threadID][id] = struct{}{}
}

func (t *TSO) PossibleExecutions() []depgraph.Node {
	return candidateNodes(t.graph)
}

func (t *TSO) AssignRegister(threadID int, register string, value int32) {
	t.regs.assign(threadID, register, value)
}

func (t *TSO) GetRegister(threadID int, register string) int32 {
	return t.regs.get(threadID, register)
}

func (t *TSO) Registers(threadID int) map[string]int32 {
	return t.regs.snapshot(threadID)
}

func (t *TSO) NumThreads() int {
	return t.regs.numThreads()
}

func (t *TSO) Graph() *depgraph.Graph {
	return t.graph
}

func (t *TSO) RemoveNode(node depgraph.Node) {
	if node.Instr.Instruction.Kind == isa.Propagate {
		delete(t.propagateNodes[node.ThreadID], node.ID)
	}
	t.graph.RemoveNode(node.ID)
}

func (t *TSO) Goto(label string) {
	rewind(t.graph, label)
}
