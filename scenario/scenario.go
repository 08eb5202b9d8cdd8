// Package scenario loads named litmus scenarios from YAML, the way the
// teacher's core package loaded YAMLRoot tile programs - here a
// scenario names a memory model and a multi-thread program instead of
// a CGRA tile grid.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archsim/wmmsim/isa"
	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
)

// Expectation pins one register's value at the end of a forced
// interleaving, for regression scenarios that demonstrate a specific
// outcome (spec §8).
type Expectation struct {
	Thread   int    `yaml:"thread"`
	Register string `yaml:"register"`
	Value    int32  `yaml:"value"`
}

// Scenario names a memory model and the program to run under it.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Model       string        `yaml:"model"`
	Source      string        `yaml:"source"`
	Expect      []Expectation `yaml:"expect"`
}

// File is the top-level YAML document: a named list of scenarios.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// ModelType parses the scenario's Model field into a model.Type.
func (s Scenario) ModelType() (model.Type, error) {
	switch s.Model {
	case "SC":
		return model.SC, nil
	case "TSO":
		return model.TSO, nil
	case "PSO":
		return model.PSO, nil
	default:
		return 0, fmt.Errorf("scenario %q: unknown model %q", s.Name, s.Model)
	}
}

// Program parses the scenario's source text into per-thread
// instructions.
func (s Scenario) Program() ([][]isa.LabeledInstruction, error) {
	program, err := parser.ParseProgram(s.Source)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return program, nil
}

// Build parses the scenario and constructs the memory model it names.
func (s Scenario) Build() (model.Model, error) {
	modelType, err := s.ModelType()
	if err != nil {
		return nil, err
	}
	program, err := s.Program()
	if err != nil {
		return nil, err
	}
	switch modelType {
	case model.TSO:
		return model.NewTSO(program), nil
	case model.PSO:
		return model.NewPSO(program), nil
	default:
		return model.NewSC(program), nil
	}
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading scenario file %q: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing scenario file %q: %w", path, err)
	}

	return f, nil
}
