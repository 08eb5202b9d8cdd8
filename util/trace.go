// Package util carries the simulator's trace-level logging and the
// go-pretty table rendering used to print a model's state between
// steps (spec §6).
package util

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/archsim/wmmsim/storage"
)

// LevelTrace sits one step above slog.LevelInfo, for the per-step
// instruction trace; any handler that passes LevelInfo also passes it.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace emits one step of the execution trace at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// Snapshot is the subset of model.Model a trace render needs: register
// files, coherent memory, and (for TSO/PSO) per-thread store buffers.
// model.Model satisfies this directly.
type Snapshot interface {
	NumThreads() int
	Registers(threadID int) map[string]int32
	Memory() map[int32]int32
	Buffers() [][]storage.BufferEntry
}

// RenderState prints the REGISTERS / BUFFERS / MEMORY trace blocks for
// one step (spec §6), one row per register, buffered entry, or memory
// address. BUFFERS is omitted for SC,
// whose Buffers() is always nil.
func RenderState(step int, snap Snapshot) string {
	out := fmt.Sprintf("# step %d\n", step)

	regTable := table.NewWriter()
	regTable.SetTitle("REGISTERS")
	regTable.AppendHeader(table.Row{"thread", "register", "value"})
	for t := 0; t < snap.NumThreads(); t++ {
		for name, value := range snap.Registers(t) {
			regTable.AppendRow(table.Row{t, name, value})
		}
	}
	out += regTable.Render() + "\n"

	if buffers := snap.Buffers(); buffers != nil {
		bufTable := table.NewWriter()
		bufTable.SetTitle("BUFFERS")
		bufTable.AppendHeader(table.Row{"thread", "address", "value"})
		for t, buf := range buffers {
			for _, e := range buf {
				bufTable.AppendRow(table.Row{t, e.Address, e.Value})
			}
		}
		out += bufTable.Render() + "\n"
	}

	memTable := table.NewWriter()
	memTable.SetTitle("MEMORY")
	memTable.AppendHeader(table.Row{"address", "value"})
	for addr, value := range snap.Memory() {
		memTable.AppendRow(table.Row{addr, value})
	}
	out += memTable.Render() + "\n"

	return out
}
