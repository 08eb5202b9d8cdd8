// Package model dispatches one dependency-graph node at a time against a
// thread system and a storage system, the way each memory model defines
// "executing an instruction": SC instructions touch shared memory
// directly, TSO/PSO instructions touch a store buffer and synthesize a
// propagate event that later drains it.
package model

import (
	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/isa"
	"github.com/archsim/wmmsim/storage"
	"github.com/archsim/wmmsim/threads"
)

// Chooser picks one node out of a non-empty slice of execution
// candidates. Pulled out as an interface (rather than calling
// math/rand directly) so a deterministic chooser can stand in for it in
// tests - see mock_chooser_test.go.
//
//go:generate mockgen -source=model.go -destination=mock_chooser_test.go -package=model
type Chooser interface {
	Choose(candidates []depgraph.Node) depgraph.Node
}

// Type names one of the three memory models (spec §4).
type Type int

const (
	SC Type = iota
	TSO
	PSO
)

func (t Type) String() string {
	switch t {
	case SC:
		return "SC"
	case TSO:
		return "TSO"
	case PSO:
		return "PSO"
	default:
		return "UNKNOWN"
	}
}

// Model is the contract all three memory models satisfy (spec §4/§5).
type Model interface {
	PossibleExecutions() []depgraph.Node
	RandomStep(chooser Chooser) (stepped bool, node depgraph.Node)
	Step(node depgraph.Node)
	// GetRegister reads a thread's register file, for tracing and tests.
	GetRegister(threadID int, register string) int32
	// NumThreads reports how many threads the model was built over.
	NumThreads() int
	// Registers returns a snapshot of thread t's register file.
	Registers(threadID int) map[string]int32
	// Memory returns a snapshot of coherent shared memory.
	Memory() map[int32]int32
	// Buffers returns a snapshot of each thread's store buffer, indexed
	// by thread id. SC has no buffers and returns nil.
	Buffers() [][]storage.BufferEntry
	// Graph exposes the underlying dependency graph, for invariant
	// checking.
	Graph() *depgraph.Graph
}

// sc wires SCThreadSystem directly to a single shared memory map - every
// instruction observes and mutates coherent state immediately.
type sc struct {
	threads *threads.SC
	store   *storage.SC
}

// NewSC builds the sequentially consistent model over per-thread
// programs.
func NewSC(instructions [][]isa.LabeledInstruction) Model {
	return &sc{threads: threads.NewSC(instructions), store: storage.NewSC()}
}

func (m *sc) PossibleExecutions() []depgraph.Node {
	return m.threads.PossibleExecutions()
}

func (m *sc) GetRegister(threadID int, register string) int32 {
	return m.threads.GetRegister(threadID, register)
}

func (m *sc) NumThreads() int {
	return m.threads.NumThreads()
}

func (m *sc) Registers(threadID int) map[string]int32 {
	return m.threads.Registers(threadID)
}

func (m *sc) Memory() map[int32]int32 {
	return m.store.Memory()
}

// Buffers is always empty under SC - every store is immediately
// coherent, so there is nothing buffered to show.
func (m *sc) Buffers() [][]storage.BufferEntry {
	return nil
}

func (m *sc) Graph() *depgraph.Graph {
	return m.threads.Graph()
}

func (m *sc) RandomStep(chooser Chooser) (bool, depgraph.Node) {
	return randomStep(m, chooser)
}

func (m *sc) Step(node depgraph.Node) {
	m.threads.RemoveNode(node)
	dispatchCommon(m.threads, m.store, node)
}

// tso wires TSOThreadSystem to a per-thread-FIFO buffered store; a
// completed store, successful CAS, or FAI also synthesizes a propagate
// event, and a
// dispatched propagate event drains the buffer into shared memory.
type tso struct {
	threads *threads.TSO
	store   *storage.TSO
}

// NewTSO builds the Total Store Order model over per-thread programs.
func NewTSO(instructions [][]isa.LabeledInstruction) Model {
	return &tso{
		threads: threads.NewTSO(instructions),
		store:   storage.NewTSO(len(instructions)),
	}
}

func (m *tso) PossibleExecutions() []depgraph.Node {
	return m.threads.PossibleExecutions()
}

func (m *tso) GetRegister(threadID int, register string) int32 {
	return m.threads.GetRegister(threadID, register)
}

func (m *tso) NumThreads() int {
	return m.threads.NumThreads()
}

func (m *tso) Registers(threadID int) map[string]int32 {
	return m.threads.Registers(threadID)
}

func (m *tso) Memory() map[int32]int32 {
	return m.store.Memory()
}

func (m *tso) Buffers() [][]storage.BufferEntry {
	out := make([][]storage.BufferEntry, m.store.NumThreads())
	for t := range out {
		out[t] = m.store.Buffer(t)
	}
	return out
}

func (m *tso) Graph() *depgraph.Graph {
	return m.threads.Graph()
}

func (m *tso) RandomStep(chooser Chooser) (bool, depgraph.Node) {
	return randomStep(m, chooser)
}

func (m *tso) Step(node depgraph.Node) {
	m.threads.RemoveNode(node)
	threadID := node.ThreadID
	instr := node.Instr.Instruction

	switch instr.Kind {
	case isa.Propagate:
		m.store.Propagate(instr.ThreadID, instr.PropAddr)
	case isa.Load:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		value := m.store.Load(threadID, addr)
		m.threads.AssignRegister(threadID, instr.R, value)
	case isa.Store:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		value := m.threads.GetRegister(threadID, instr.R)
		m.store.Store(threadID, addr, value)
		m.threads.AddPropagateNode(threadID, addr, value)
	case isa.Cas:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		exp := m.threads.GetRegister(threadID, instr.Exp)
		des := m.threads.GetRegister(threadID, instr.Des)
		pre := m.store.Cas(threadID, addr, exp, des)
		if pre == exp {
			m.threads.AddPropagateNode(threadID, addr, des)
		}
		m.threads.AssignRegister(threadID, instr.To, pre)
	case isa.Fai:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		inc := m.threads.GetRegister(threadID, instr.Inc)
		pre := m.store.Fai(threadID, addr, inc)
		m.threads.AssignRegister(threadID, instr.To, pre)
		m.threads.AddPropagateNode(threadID, addr, pre+inc)
	default:
		dispatchRegisterOnly(m.threads, m.store, node)
	}
}

// pso wires PSOThreadSystem to the same buffered store as TSO; the two
// models differ only in how their thread systems order propagate
// events relative to each other.
type pso struct {
	threads *threads.PSO
	store   *storage.PSO
}

// NewPSO builds the Partial Store Order model over per-thread programs.
func NewPSO(instructions [][]isa.LabeledInstruction) Model {
	return &pso{
		threads: threads.NewPSO(instructions),
		store:   storage.NewPSO(len(instructions)),
	}
}

func (m *pso) PossibleExecutions() []depgraph.Node {
	return m.threads.PossibleExecutions()
}

func (m *pso) GetRegister(threadID int, register string) int32 {
	return m.threads.GetRegister(threadID, register)
}

func (m *pso) NumThreads() int {
	return m.threads.NumThreads()
}

func (m *pso) Registers(threadID int) map[string]int32 {
	return m.threads.Registers(threadID)
}

func (m *pso) Memory() map[int32]int32 {
	return m.store.Memory()
}

func (m *pso) Buffers() [][]storage.BufferEntry {
	out := make([][]storage.BufferEntry, m.store.NumThreads())
	for t := range out {
		out[t] = m.store.Buffer(t)
	}
	return out
}

func (m *pso) Graph() *depgraph.Graph {
	return m.threads.Graph()
}

func (m *pso) RandomStep(chooser Chooser) (bool, depgraph.Node) {
	return randomStep(m, chooser)
}

func (m *pso) Step(node depgraph.Node) {
	m.threads.RemoveNode(node)
	threadID := node.ThreadID
	instr := node.Instr.Instruction

	switch instr.Kind {
	case isa.Propagate:
		m.store.Propagate(instr.ThreadID, instr.PropAddr)
	case isa.Load:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		value := m.store.Load(threadID, addr)
		m.threads.AssignRegister(threadID, instr.R, value)
	case isa.Store:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		value := m.threads.GetRegister(threadID, instr.R)
		m.store.Store(threadID, addr, value)
		m.threads.AddPropagateNode(threadID, addr, value)
	case isa.Cas:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		exp := m.threads.GetRegister(threadID, instr.Exp)
		des := m.threads.GetRegister(threadID, instr.Des)
		pre := m.store.Cas(threadID, addr, exp, des)
		if pre == exp {
			m.threads.AddPropagateNode(threadID, addr, des)
		}
		m.threads.AssignRegister(threadID, instr.To, pre)
	case isa.Fai:
		addr := m.threads.GetRegister(threadID, instr.Addr)
		inc := m.threads.GetRegister(threadID, instr.Inc)
		pre := m.store.Fai(threadID, addr, inc)
		m.threads.AssignRegister(threadID, instr.To, pre)
		m.threads.AddPropagateNode(threadID, addr, pre+inc)
	default:
		dispatchRegisterOnly(m.threads, m.store, node)
	}
}

// registerThreadSystem is the subset of threads.System every
// register-only dispatch needs; SC, TSO, and PSO thread systems all
// satisfy it.
type registerThreadSystem interface {
	AssignRegister(threadID int, register string, value int32)
	GetRegister(threadID int, register string) int32
	Goto(label string)
}

// dispatchCommon handles every instruction kind for SC, where
// load/store/cas/fai touch shared memory directly with no propagation
// step.
func dispatchCommon(t registerThreadSystem, s storage.System, node depgraph.Node) {
	threadID := node.ThreadID
	instr := node.Instr.Instruction

	switch instr.Kind {
	case isa.Load:
		addr := t.GetRegister(threadID, instr.Addr)
		value := s.Load(threadID, addr)
		t.AssignRegister(threadID, instr.R, value)
	case isa.Store:
		addr := t.GetRegister(threadID, instr.Addr)
		value := t.GetRegister(threadID, instr.R)
		s.Store(threadID, addr, value)
	case isa.Cas:
		addr := t.GetRegister(threadID, instr.Addr)
		exp := t.GetRegister(threadID, instr.Exp)
		des := t.GetRegister(threadID, instr.Des)
		pre := s.Cas(threadID, addr, exp, des)
		t.AssignRegister(threadID, instr.To, pre)
	case isa.Fai:
		addr := t.GetRegister(threadID, instr.Addr)
		inc := t.GetRegister(threadID, instr.Inc)
		pre := s.Fai(threadID, addr, inc)
		t.AssignRegister(threadID, instr.To, pre)
	default:
		dispatchRegisterOnly(t, s, node)
	}
}

// dispatchRegisterOnly handles the instruction kinds common to every
// model that never touch storage: constants, arithmetic, conditional
// goto, and fences (a no-op by itself - its effect is entirely the
// edges it already contributed to the graph).
func dispatchRegisterOnly(t registerThreadSystem, _ storage.System, node depgraph.Node) {
	threadID := node.ThreadID
	instr := node.Instr.Instruction

	switch instr.Kind {
	case isa.Const:
		t.AssignRegister(threadID, instr.R, instr.Value)
	case isa.ArithPlus:
		t.AssignRegister(threadID, instr.R1, t.GetRegister(threadID, instr.R2)+t.GetRegister(threadID, instr.R3))
	case isa.ArithMinus:
		t.AssignRegister(threadID, instr.R1, t.GetRegister(threadID, instr.R2)-t.GetRegister(threadID, instr.R3))
	case isa.ArithMul:
		t.AssignRegister(threadID, instr.R1, t.GetRegister(threadID, instr.R2)*t.GetRegister(threadID, instr.R3))
	case isa.ArithDiv:
		t.AssignRegister(threadID, instr.R1, t.GetRegister(threadID, instr.R2)/t.GetRegister(threadID, instr.R3))
	case isa.Cond:
		if t.GetRegister(threadID, instr.R) != 0 {
			t.Goto(instr.Label)
		}
	case isa.Fence:
	}
}

func randomStep(m Model, chooser Chooser) (bool, depgraph.Node) {
	candidates := m.PossibleExecutions()
	if len(candidates) == 0 {
		return false, depgraph.Node{}
	}
	node := chooser.Choose(candidates)
	m.Step(node)
	return true, node
}
