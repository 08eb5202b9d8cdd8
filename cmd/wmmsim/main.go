// Command wmmsim runs a multi-threaded program against one of the
// three weak memory models and prints the resulting trace (spec §6).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/archsim/wmmsim/config"
	"github.com/archsim/wmmsim/depgraph"
	"github.com/archsim/wmmsim/model"
	"github.com/archsim/wmmsim/parser"
	"github.com/archsim/wmmsim/util"
)

func main() {
	programPath := flag.String("f", "", "path to the program source file (required)")
	modelName := flag.String("m", "SC", "memory model to simulate: SC, TSO, or PSO")
	freqHz := flag.Float64("freq", 1e9, "driver tick frequency in Hz")
	seed := flag.Int64("seed", 1, "random seed for candidate selection")
	trace := flag.Bool("t", false, "print a REGISTERS/BUFFERS/MEMORY block after every step")
	interactive := flag.Bool("i", false, "interactive stepping (parsed and stored, not yet wired to anything)")
	monitorFlag := flag.Bool("monitor", false, "register the driver with an akita progress monitor")
	flag.Parse()
	_ = interactive

	if *programPath == "" {
		fmt.Fprintln(os.Stderr, "FileReadError: -f is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FileReadError: %v\n", err)
		os.Exit(1)
	}

	program, err := parser.ParseProgram(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseError: %v\n", err)
		os.Exit(1)
	}

	modelType, err := parseModelType(*modelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ModelError: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: util.LevelTrace,
	})))

	engine := sim.NewSerialEngine()

	builder := config.NewSimulatorBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(*freqHz)).
		WithModelType(modelType).
		WithChooser(model.NewRandChooser(*seed))

	m := builder.BuildModel(program)

	step := 0
	if *trace {
		builder = builder.WithTrace(func(_ depgraph.Node) {
			step++
			fmt.Print(util.RenderState(step, m))
		})
	}

	if *monitorFlag {
		builder = builder.WithMonitor(monitoring.NewMonitor())
	}

	driver := builder.BuildDriver("Driver", m)
	driver.Run(engine)

	fmt.Printf("completed after %d steps\n", driver.Steps())
	atexit.Exit(0)
}

func parseModelType(name string) (model.Type, error) {
	switch name {
	case "SC":
		return model.SC, nil
	case "TSO":
		return model.TSO, nil
	case "PSO":
		return model.PSO, nil
	default:
		return 0, fmt.Errorf("unknown model %q, want SC, TSO, or PSO", name)
	}
}
