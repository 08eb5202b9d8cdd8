package threads

import (
	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/isa"
)

// PSO is the Partial Store Order thread system. Identical to TSO except
// that a thread's propagate events are FIFO-ordered per (thread,
// address) rather than per thread: writes to different addresses may
// drain out of program order relative to each other.
type PSO struct {
	graph          *depgraph.Graph
	regs           registers
	propagateNodes []map[pendingPropagate]struct{}
}

type pendingPropagate struct {
	node    int
	address int32
}

// NewPSO builds a PSO thread system over the per-thread programs.
func NewPSO(instructions [][]isa.LabeledInstruction) *PSO {
	g := depgraph.New()
	propagateNodes := make([]map[pendingPropagate]struct{}, len(instructions))
	for threadID, threadInstructions := range instructions {
		ids := addNodesOnly(g, threadInstructions, threadID)
		wireModeEdges(g, threadInstructions, ids)
		propagateNodes[threadID] = make(map[pendingPropagate]struct{})
	}
	return &PSO{graph: g, regs: newRegisters(len(instructions)), propagateNodes: propagateNodes}
}

// AddPropagateNode synthesizes the propagate event for a completed
// store/successful-CAS/FAI: it must wait for every currently active
// fence (of any thread), and it joins the back of the FIFO for its
// own (thread, address) pair only - pending propagates to other
// addresses on the same thread impose no order on it (spec §4.2/§5).
func (p *PSO) AddPropagateNode(threadID int, address, value int32) {
	id := p.graph.AddNode(threadID, isa.NewPropagate(threadID, address, value))
	for _, fenceNode := range p.graph.ActiveFenceNodes() {
		p.graph.AddEdge(id, fenceNode)
	}
	for pending := range p.propagateNodes[threadID] {
		if pending.address == address {
			p.graph.AddEdge(id, pending.node)
		}
	}
	p.propagateNodes[threadID][pendingPropagate{node: id, address: address}] = struct{}{}
}

func (p *PSO) PossibleExecutions() []depgraph.Node {
	return candidateNodes(p.graph)
}

func (p *PSO) AssignRegister(threadID int, register string, value int32) {
	p.regs.assign(threadID, register, value)
}

func (p *PSO) GetRegister(threadID int, register string) int32 {
	return p.regs.get(threadID, register)
}

func (p *PSO) Registers(threadID int) map[string]int32 {
	return p.regs.snapshot(threadID)
}

func (p *PSO) NumThreads() int {
	return p.regs.numThreads()
}

func (p *PSO) Graph() *depgraph.Graph {
	return p.graph
}

func (p *PSO) RemoveNode(node depgraph.Node) {
	if node.Instr.Instruction.Kind == isa.Propagate {
		delete(p.propagateNodes[node.ThreadID], pendingPropagate{node: node.ID, address: node.Instr.Instruction.PropAddr})
	}
	p.graph.RemoveNode(node.ID)
}

func (p *PSO) Goto(label string) {
	rewind(p.graph, label)
}
