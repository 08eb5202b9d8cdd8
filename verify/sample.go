package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archsim/wmmsim/model"
)

// Outcome is one distinct final state observed across repeated runs of
// a scenario - the memory and register snapshot after every candidate
// drained (spec §8's existential TSO/PSO-vs-SC properties are
// demonstrated by this set containing more than one Outcome).
type Outcome struct {
	Memory    map[int32]int32
	Registers []map[string]int32
	Count     int
}

func (o Outcome) key() string {
	var b strings.Builder
	memKeys := make([]int32, 0, len(o.Memory))
	for addr := range o.Memory {
		memKeys = append(memKeys, addr)
	}
	sort.Slice(memKeys, func(i, j int) bool { return memKeys[i] < memKeys[j] })
	for _, addr := range memKeys {
		fmt.Fprintf(&b, "mem[%d]=%d;", addr, o.Memory[addr])
	}

	for t, regs := range o.Registers {
		names := make([]string, 0, len(regs))
		for name := range regs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "t%d.%s=%d;", t, name, regs[name])
		}
	}

	return b.String()
}

func (o Outcome) describe() string {
	return o.key()
}

// Sample runs trials independent randomized executions of a freshly
// built model each time, draining every one to completion and
// collecting the distinct final (memory, registers) states reached.
func Sample(trials int, build func() (model.Model, error)) ([]Outcome, error) {
	counts := make(map[string]*Outcome)

	for i := 0; i < trials; i++ {
		m, err := build()
		if err != nil {
			return nil, err
		}

		chooser := model.NewRandChooser(int64(i + 1))
		for {
			stepped, _ := m.RandomStep(chooser)
			if !stepped {
				break
			}
		}

		registers := make([]map[string]int32, m.NumThreads())
		for t := range registers {
			registers[t] = m.Registers(t)
		}

		outcome := Outcome{Memory: m.Memory(), Registers: registers}
		key := outcome.key()
		if existing, ok := counts[key]; ok {
			existing.Count++
		} else {
			outcome.Count = 1
			counts[key] = &outcome
		}
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Outcome, 0, len(keys))
	for _, key := range keys {
		out = append(out, *counts[key])
	}
	return out, nil
}
