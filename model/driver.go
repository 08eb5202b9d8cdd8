package model

import (
	"math/rand"

	"github.com/archsim/wmmsim/depgraph"
	"github.com/sarchlab/akita/v4/sim"
)

// RandChooser is the production Chooser: it samples uniformly at
// random, the same discipline the spec requires of every candidate -
// program instructions and synthesized propagates alike get no
// fairness bound beyond uniform sampling (spec §9, Open Questions).
type RandChooser struct {
	rng *rand.Rand
}

// NewRandChooser returns a chooser seeded from seed. Two choosers built
// from the same seed reproduce the same run.
func NewRandChooser(seed int64) *RandChooser {
	return &RandChooser{rng: rand.New(rand.NewSource(seed))}
}

// Choose samples one candidate uniformly at random.
func (c *RandChooser) Choose(candidates []depgraph.Node) depgraph.Node {
	return candidates[c.rng.Intn(len(candidates))]
}

// Trace receives one (threadID, instruction) pair per stepped node, for
// callers that want to render a live trace (spec §6 - REGISTERS,
// BUFFERS, MEMORY blocks printed after every instruction).
type Trace func(node depgraph.Node)

// Driver runs a Model to completion as an akita ticking component: one
// Tick samples and dispatches exactly one execution candidate, and
// reports progress so the engine keeps scheduling ticks until the model
// has no candidates left (spec's batch-simulator Non-goal - no parallel
// execution, no I/O suspension - maps onto one candidate per tick).
type Driver struct {
	*sim.TickingComponent

	model   Model
	chooser Chooser
	trace   Trace
	steps   int
}

// Builder builds a Driver, mirroring the teacher's fluent
// WithEngine/WithFreq/Build idiom.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	model   Model
	chooser Chooser
	trace   Trace
}

// NewBuilder returns a Builder with the default frequency of 1GHz.
func NewBuilder() Builder {
	return Builder{freq: 1 * sim.GHz}
}

// WithEngine sets the driving engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithModel sets the memory model being driven.
func (b Builder) WithModel(m Model) Builder {
	b.model = m
	return b
}

// WithChooser sets the candidate chooser; defaults to a RandChooser
// seeded with 1 if never called.
func (b Builder) WithChooser(c Chooser) Builder {
	b.chooser = c
	return b
}

// WithTrace installs a callback invoked after every stepped node.
func (b Builder) WithTrace(t Trace) Builder {
	b.trace = t
	return b
}

// Build constructs the Driver and registers it with the engine.
func (b Builder) Build(name string) *Driver {
	d := &Driver{
		model:   b.model,
		chooser: b.chooser,
		trace:   b.trace,
	}
	if d.chooser == nil {
		d.chooser = NewRandChooser(1)
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	return d
}

// Tick samples and dispatches exactly one execution candidate.
func (d *Driver) Tick(_ sim.VTimeInSec) (madeProgress bool) {
	stepped, node := d.model.RandomStep(d.chooser)
	if !stepped {
		return false
	}
	d.steps++
	if d.trace != nil {
		d.trace(node)
	}
	return true
}

// Steps returns the number of instructions dispatched so far.
func (d *Driver) Steps() int {
	return d.steps
}

// Run schedules the driver's first tick and runs the engine to
// completion.
func (d *Driver) Run(engine sim.Engine) {
	engine.Schedule(sim.MakeTickEvent(d.TickingComponent, 0))
	engine.Run()
}
