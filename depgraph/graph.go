// Package depgraph implements the execution-candidate dependency graph:
// a DAG over events (program instructions plus synthesized propagate
// events) whose sources - active nodes that no longer wait on any active
// successor - are the legal next events. Nodes are dense 0-based
// ids into parallel slices, so predecessor lists live on the child and
// restoration is a pure counter update; there is no owning-reference
// cycle to manage.
package depgraph

import "github.com/archsim/wmmsim/isa"

// Node is one event: a program instruction or a synthesized propagate,
// tagged with its id and owning thread.
type Node struct {
	ID       int
	ThreadID int
	Instr    isa.LabeledInstruction
}

// Graph is the dependency DAG described in spec §3/§4.1.
type Graph struct {
	labelToNode map[string]int

	nodes           []Node
	revEdges        [][]int
	activeNeighbors []int
	isActive        []bool

	activeFenceNodes map[int]struct{}
	executionStack   []int
	candidates       map[int]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		labelToNode:      make(map[string]int),
		activeFenceNodes: make(map[int]struct{}),
		candidates:       make(map[int]struct{}),
	}
}

// AddNode appends a new node and returns its id. It starts active with
// no predecessors, so it begins life as a candidate.
func (g *Graph) AddNode(threadID int, instr isa.LabeledInstruction) int {
	id := len(g.nodes)

	if instr.HasLabel {
		g.labelToNode[instr.Label] = id
	}

	g.nodes = append(g.nodes, Node{ID: id, ThreadID: threadID, Instr: instr})
	g.revEdges = append(g.revEdges, nil)
	g.activeNeighbors = append(g.activeNeighbors, 0)
	g.isActive = append(g.isActive, true)

	if instr.Instruction.IsFence() {
		g.activeFenceNodes[id] = struct{}{}
	}
	g.candidates[id] = struct{}{}

	return id
}

// AddEdge records that `to` must execute before `from`. Only valid while
// both endpoints are under construction or freshly synthesized (never
// against an already-removed node) - see spec §9 on AddEdge's limits.
func (g *Graph) AddEdge(from, to int) {
	if g.isActive[to] {
		g.activeNeighbors[from]++
	}
	g.revEdges[to] = append(g.revEdges[to], from)

	if _, ok := g.candidates[from]; ok {
		delete(g.candidates, from)
	}
}

// RemoveNode deactivates an active node, pushes it onto the execution
// stack, and promotes any predecessor whose last active successor just
// left to candidate status. A no-op if id is already inactive.
func (g *Graph) RemoveNode(id int) {
	if !g.isActive[id] {
		return
	}

	delete(g.activeFenceNodes, id)
	g.executionStack = append(g.executionStack, id)
	g.isActive[id] = false
	delete(g.candidates, id)

	for _, from := range g.revEdges[id] {
		if !g.isActive[from] {
			continue
		}
		g.activeNeighbors[from]--
		if g.activeNeighbors[from] == 0 {
			g.candidates[from] = struct{}{}
		}
	}
}

// RestoreNode pops the most recently removed node, re-activates it, and
// returns its label (if any) so a backward-goto loop can detect when it
// has rewound far enough. Panics if the stack is empty - callers only
// call it while a rewind is in progress.
func (g *Graph) RestoreNode() (label string, hasLabel bool) {
	n := len(g.executionStack)
	id := g.executionStack[n-1]
	g.executionStack = g.executionStack[:n-1]

	g.isActive[id] = true
	if g.nodes[id].Instr.Instruction.IsFence() {
		g.activeFenceNodes[id] = struct{}{}
	}

	for _, from := range g.revEdges[id] {
		if !g.isActive[from] {
			continue
		}
		g.activeNeighbors[from]++
		if g.activeNeighbors[from] == 1 {
			delete(g.candidates, from)
		}
	}

	g.candidates[id] = struct{}{}

	li := g.nodes[id].Instr
	return li.Label, li.HasLabel
}

// IsLabelActive reports whether a label's node is currently active. An
// unknown label is treated as active, so a forward goto to a label that
// has not been registered yet is a silent no-op (see spec §9, Open
// Questions - behavior preserved from the original implementation).
func (g *Graph) IsLabelActive(label string) bool {
	id, ok := g.labelToNode[label]
	if !ok {
		return true
	}
	return g.isActive[id]
}

// IsNodeActive reports whether node id is currently active.
func (g *Graph) IsNodeActive(id int) bool {
	return g.isActive[id]
}

// Node returns the node payload for id.
func (g *Graph) Node(id int) Node {
	return g.nodes[id]
}

// NumNodes returns the number of nodes ever added to the graph.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// Candidates returns a snapshot of the current execution-candidate ids.
func (g *Graph) Candidates() []int {
	ids := make([]int, 0, len(g.candidates))
	for id := range g.candidates {
		ids = append(ids, id)
	}
	return ids
}

// ActiveFenceNodes returns a snapshot of the ids of currently-active
// fence nodes.
func (g *Graph) ActiveFenceNodes() []int {
	ids := make([]int, 0, len(g.activeFenceNodes))
	for id := range g.activeFenceNodes {
		ids = append(ids, id)
	}
	return ids
}

// ActiveNeighbors returns the number of active successors id still
// waits on - exported for invariant checking (I2).
func (g *Graph) ActiveNeighbors(id int) int {
	return g.activeNeighbors[id]
}

// RevEdges returns the predecessor list of id - exported for invariant
// checking (I2).
func (g *Graph) RevEdges(id int) []int {
	return g.revEdges[id]
}

// ExecutionStack returns a snapshot of the execution stack, latest on
// top - exported for invariant checking (I3).
func (g *Graph) ExecutionStack() []int {
	out := make([]int, len(g.executionStack))
	copy(out, g.executionStack)
	return out
}
