// Package config provides the fluent builder that wires a memory model
// into a running Driver, the way the teacher's DeviceBuilder wires tiles
// into a running CGRA device.
package config

import (
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/archsim/wmmsim/isa"
	"github.com/archsim/wmmsim/model"
)

// SimulatorBuilder builds a Driver over one of the three memory models
// (spec §4).
type SimulatorBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	monitor   *monitoring.Monitor
	modelType model.Type
	chooser   model.Chooser
	trace     model.Trace
}

// NewSimulatorBuilder returns a builder defaulted to SC at 1GHz.
func NewSimulatorBuilder() SimulatorBuilder {
	return SimulatorBuilder{freq: 1 * sim.GHz, modelType: model.SC}
}

// WithEngine sets the engine that drives the simulation.
func (b SimulatorBuilder) WithEngine(engine sim.Engine) SimulatorBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the driver's tick frequency.
func (b SimulatorBuilder) WithFreq(freq sim.Freq) SimulatorBuilder {
	b.freq = freq
	return b
}

// WithMonitor sets the monitor that tracks the driver's progress.
func (b SimulatorBuilder) WithMonitor(monitor *monitoring.Monitor) SimulatorBuilder {
	b.monitor = monitor
	return b
}

// WithModelType selects SC, TSO, or PSO semantics.
func (b SimulatorBuilder) WithModelType(t model.Type) SimulatorBuilder {
	b.modelType = t
	return b
}

// WithChooser sets the candidate chooser; defaults to a seeded
// RandChooser if never called.
func (b SimulatorBuilder) WithChooser(c model.Chooser) SimulatorBuilder {
	b.chooser = c
	return b
}

// WithTrace installs a callback invoked after every stepped node.
func (b SimulatorBuilder) WithTrace(t model.Trace) SimulatorBuilder {
	b.trace = t
	return b
}

// BuildModel constructs the memory model named by WithModelType over
// instructions, without wrapping it in a Driver - callers that need the
// model itself (e.g. to close over it for tracing) use this plus
// BuildDriver instead of Build.
func (b SimulatorBuilder) BuildModel(instructions [][]isa.LabeledInstruction) model.Model {
	switch b.modelType {
	case model.TSO:
		return model.NewTSO(instructions)
	case model.PSO:
		return model.NewPSO(instructions)
	default:
		return model.NewSC(instructions)
	}
}

// BuildDriver wraps an already-built model in a Driver and registers it
// with the monitor if one was set.
func (b SimulatorBuilder) BuildDriver(name string, m model.Model) *model.Driver {
	driver := model.NewBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithModel(m).
		WithChooser(b.chooser).
		WithTrace(b.trace).
		Build(name)

	if b.monitor != nil {
		b.monitor.RegisterComponent(driver)
	}

	return driver
}

// Build constructs the memory model for instructions and wraps it in a
// Driver in one step.
func (b SimulatorBuilder) Build(name string, instructions [][]isa.LabeledInstruction) *model.Driver {
	return b.BuildDriver(name, b.BuildModel(instructions))
}
