package isa

import "fmt"

// Kind tags the variant held by an Instruction. Instructions are a closed
// tagged variant dispatched on Kind, not a polymorphic type hierarchy.
type Kind int

const (
	Const Kind = iota
	ArithPlus
	ArithMinus
	ArithMul
	ArithDiv
	Cond
	Load
	Store
	Cas
	Fai
	Fence
	// Propagate is synthesized by the thread system, never produced by the
	// parser: it drains one buffered store into coherent memory.
	Propagate
)

func (k Kind) String() string {
	switch k {
	case Const:
		return "Const"
	case ArithPlus:
		return "ArithPlus"
	case ArithMinus:
		return "ArithMinus"
	case ArithMul:
		return "ArithMul"
	case ArithDiv:
		return "ArithDiv"
	case Cond:
		return "Cond"
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Cas:
		return "Cas"
	case Fai:
		return "Fai"
	case Fence:
		return "Fence"
	case Propagate:
		return "Propagate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Instruction is the closed variant of every event the simulator can
// execute: the program's real instructions plus the synthesized
// Propagate event. Only the fields relevant to Kind are meaningful.
type Instruction struct {
	Kind Kind

	// Const/Load destination register, Store source register, Cond
	// condition register.
	R string
	// Const literal.
	Value int32

	// Arithmetic operands.
	R1, R2, R3 string

	// Cond.
	Label string

	// Load/Store/Cas/Fai/Fence.
	Mode Mode
	// Addr names the register holding the address (memory is
	// register-indirect: "address" is always a register name).
	Addr string

	// Cas/Fai destination-of-preimage register ("to").
	To string
	// Cas.
	Exp, Des string
	// Fai.
	Inc string

	// Propagate.
	ThreadID  int
	PropAddr  int32
	PropValue int32
}

// IsFence reports whether this instruction is a Fence.
func (i Instruction) IsFence() bool {
	return i.Kind == Fence
}

// HasMode reports whether this instruction kind carries a Mode, and
// returns it. Const, arithmetic, Cond and Propagate carry no mode.
func (i Instruction) HasMode() (Mode, bool) {
	switch i.Kind {
	case Load, Store, Cas, Fai, Fence:
		return i.Mode, true
	default:
		return 0, false
	}
}

// String renders the instruction the way trace output displays it:
// "r = 7", "load SEQ_CST #x r1", "to := cas ACQ #a exp des", etc.
func (i Instruction) String() string {
	switch i.Kind {
	case Const:
		return fmt.Sprintf("%s = %d", i.R, i.Value)
	case ArithPlus:
		return fmt.Sprintf("%s = %s + %s", i.R1, i.R2, i.R3)
	case ArithMinus:
		return fmt.Sprintf("%s = %s - %s", i.R1, i.R2, i.R3)
	case ArithMul:
		return fmt.Sprintf("%s = %s * %s", i.R1, i.R2, i.R3)
	case ArithDiv:
		return fmt.Sprintf("%s = %s / %s", i.R1, i.R2, i.R3)
	case Cond:
		return fmt.Sprintf("if %s goto %s", i.R, i.Label)
	case Load:
		return fmt.Sprintf("load %s #%s %s", i.Mode, i.Addr, i.R)
	case Store:
		return fmt.Sprintf("store %s #%s %s", i.Mode, i.Addr, i.R)
	case Cas:
		return fmt.Sprintf("%s := cas %s #%s %s %s", i.To, i.Mode, i.Addr, i.Exp, i.Des)
	case Fai:
		return fmt.Sprintf("%s := fai %s #%s %s", i.To, i.Mode, i.Addr, i.Inc)
	case Fence:
		return fmt.Sprintf("fence %s", i.Mode)
	case Propagate:
		return fmt.Sprintf("propagate with thread_id = %d, address = %d and value = %d",
			i.ThreadID, i.PropAddr, i.PropValue)
	default:
		return i.Kind.String()
	}
}

// LabeledInstruction is an instruction with an optional leading label.
type LabeledInstruction struct {
	Label       string // empty means unlabeled
	HasLabel    bool
	Instruction Instruction
}

func (li LabeledInstruction) String() string {
	if li.HasLabel {
		return fmt.Sprintf("%s: %s", li.Label, li.Instruction)
	}
	return li.Instruction.String()
}

// NewPropagate builds the synthesized propagate event for a store, a
// successful CAS, or an FAI.
func NewPropagate(threadID int, address, value int32) LabeledInstruction {
	return LabeledInstruction{
		Instruction: Instruction{
			Kind:      Propagate,
			ThreadID:  threadID,
			PropAddr:  address,
			PropValue: value,
		},
	}
}
