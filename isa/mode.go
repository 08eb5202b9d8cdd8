// Package isa defines the instruction set of the simulated assembly
// language: memory modes, the closed instruction variant, and the
// label-carrying wrapper the parser and dependency graph operate on.
package isa

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Mode is a memory-order annotation on a memory operation or fence.
type Mode int

const (
	// SeqCst is sequentially consistent ordering.
	SeqCst Mode = iota
	// Rel is release ordering.
	Rel
	// Acq is acquire ordering.
	Acq
	// RelAcq combines release and acquire ordering.
	RelAcq
	// Rlx is relaxed ordering.
	Rlx
)

// String renders a mode the way the surface syntax spells it.
func (m Mode) String() string {
	switch m {
	case SeqCst:
		return "SEQ_CST"
	case Rel:
		return "REL"
	case Acq:
		return "ACQ"
	case RelAcq:
		return "REL_ACQ"
	case Rlx:
		return "RLX"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a surface-syntax token to a Mode.
func ParseMode(token string) (Mode, bool) {
	switch strings.ToUpper(token) {
	case "SEQ_CST":
		return SeqCst, true
	case "REL":
		return Rel, true
	case "ACQ":
		return Acq, true
	case "REL_ACQ":
		return RelAcq, true
	case "RLX":
		return Rlx, true
	default:
		return 0, false
	}
}

// TitleCase renders a name the way debug/trace lines present it, e.g.
// "store" -> "Store". Reused from the teacher's toTitleCase helper.
func TitleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}
