// Package parser turns the line-oriented surface syntax into the isa
// instruction model: one LabeledInstruction per non-blank line, threads
// separated by blank lines.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/archsim/wmmsim/isa"
)

// Error is a parse failure tied to the offending source line, satisfying
// the ParseError kind from the error-handling design.
type Error struct {
	Line string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error parsing instruction %q: %s", e.Line, e.Msg)
}

// ParseInstruction parses a single non-blank source line.
func ParseInstruction(line string) (isa.LabeledInstruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return isa.LabeledInstruction{}, &Error{Line: line, Msg: "empty instruction"}
	}

	var label string
	hasLabel := false
	if strings.HasSuffix(fields[0], ":") {
		label = strings.TrimSuffix(fields[0], ":")
		hasLabel = true
		fields = fields[1:]
	}

	instr, err := parseFields(line, fields)
	if err != nil {
		return isa.LabeledInstruction{}, err
	}

	return isa.LabeledInstruction{
		Label:       label,
		HasLabel:    hasLabel,
		Instruction: instr,
	}, nil
}

func parseFields(line string, f []string) (isa.Instruction, error) {
	fail := func(msg string) (isa.Instruction, error) {
		return isa.Instruction{}, &Error{Line: line, Msg: msg}
	}

	switch {
	case len(f) == 3 && f[1] == "=":
		value, err := strconv.ParseInt(f[2], 10, 32)
		if err != nil {
			return fail("invalid constant")
		}
		return isa.Instruction{Kind: isa.Const, R: f[0], Value: int32(value)}, nil

	case len(f) == 5 && f[1] == "=" && isArithOp(f[3]):
		kind, ok := arithKind(f[3])
		if !ok {
			return fail("unknown arithmetic operator")
		}
		return isa.Instruction{Kind: kind, R1: f[0], R2: f[2], R3: f[4]}, nil

	case len(f) == 4 && f[0] == "load":
		mode, ok := isa.ParseMode(f[1])
		if !ok {
			return fail("invalid mode")
		}
		return isa.Instruction{Kind: isa.Load, Mode: mode, Addr: f[2], R: f[3]}, nil

	case len(f) == 4 && f[0] == "store":
		mode, ok := isa.ParseMode(f[1])
		if !ok {
			return fail("invalid mode")
		}
		return isa.Instruction{Kind: isa.Store, Mode: mode, Addr: f[2], R: f[3]}, nil

	case len(f) == 7 && f[1] == ":=" && f[2] == "cas":
		mode, ok := isa.ParseMode(f[3])
		if !ok {
			return fail("invalid mode")
		}
		return isa.Instruction{
			Kind: isa.Cas, Mode: mode, To: f[0], Addr: f[4], Exp: f[5], Des: f[6],
		}, nil

	case len(f) == 6 && f[1] == ":=" && f[2] == "fai":
		mode, ok := isa.ParseMode(f[3])
		if !ok {
			return fail("invalid mode")
		}
		return isa.Instruction{
			Kind: isa.Fai, Mode: mode, To: f[0], Addr: f[4], Inc: f[5],
		}, nil

	case len(f) == 2 && f[0] == "fence":
		mode, ok := isa.ParseMode(f[1])
		if !ok {
			return fail("invalid mode")
		}
		return isa.Instruction{Kind: isa.Fence, Mode: mode}, nil

	case len(f) == 4 && f[0] == "if" && f[2] == "goto":
		return isa.Instruction{Kind: isa.Cond, R: f[1], Label: f[3]}, nil

	default:
		return fail("unknown instruction format")
	}
}

func isArithOp(tok string) bool {
	switch tok {
	case "+", "-", "*", "/":
		return true
	default:
		return false
	}
}

func arithKind(tok string) (isa.Kind, bool) {
	switch tok {
	case "+":
		return isa.ArithPlus, true
	case "-":
		return isa.ArithMinus, true
	case "*":
		return isa.ArithMul, true
	case "/":
		return isa.ArithDiv, true
	default:
		return 0, false
	}
}

// ParseProgram splits a whole program file into per-thread instruction
// lists. Blank lines separate threads; the file therefore begins with
// thread 0.
func ParseProgram(content string) ([][]isa.LabeledInstruction, error) {
	threads := [][]isa.LabeledInstruction{{}}
	current := 0

	// A single trailing newline terminates the last line rather than
	// starting a new one, matching Rust's str::lines(); trim it so a
	// file ending in "\n" (the normal case) doesn't parse as if it had
	// one extra trailing blank-line thread separator.
	content = strings.TrimSuffix(content, "\n")

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			threads = append(threads, []isa.LabeledInstruction{})
			current++
			continue
		}

		instr, err := ParseInstruction(line)
		if err != nil {
			return nil, err
		}
		threads[current] = append(threads[current], instr)
	}

	return threads, nil
}
